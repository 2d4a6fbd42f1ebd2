package models

import (
	"encoding/json"
	"fmt"
	"sort"

	dErrors "rentwise/pkg/domain-errors"
)

// Patch is a parsed partial update. Scalar flags are overwritten; sections
// are merged into the payload by ApplyPatch.
type Patch struct {
	IsPrimary *bool
	IsActive  *bool
	Sections  []SectionPatch
}

// SectionPatch is one payload section named by its JSON key.
type SectionPatch struct {
	Key string
	Raw json.RawMessage
}

// readOnlyFields are derived or identity fields a patch may never set.
var readOnlyFields = map[string]struct{}{
	"id":          {},
	"ownerId":     {},
	"profileType": {},
	"createdAt":   {},
	"updatedAt":   {},
	"trustScore":  {},
	"ratings":     {},
	"members":     {},
}

// ParsePatch parses a JSON object into a Patch. Section keys are validated
// against the profile type later, in ApplyPatch.
func ParsePatch(raw []byte) (*Patch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "patch must be a JSON object")
	}
	if fields == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "patch must be a JSON object")
	}

	patch := &Patch{}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := fields[key]
		switch key {
		case "isPrimary":
			b, err := parseFlag(key, value)
			if err != nil {
				return nil, err
			}
			patch.IsPrimary = b
		case "isActive":
			b, err := parseFlag(key, value)
			if err != nil {
				return nil, err
			}
			patch.IsActive = b
		default:
			if _, ro := readOnlyFields[key]; ro {
				return nil, validationError(fmt.Sprintf("field %q cannot be updated", key))
			}
			patch.Sections = append(patch.Sections, SectionPatch{Key: key, Raw: value})
		}
	}
	return patch, nil
}

func parseFlag(key string, raw json.RawMessage) (*bool, error) {
	var b *bool
	if err := json.Unmarshal(raw, &b); err != nil || b == nil {
		return nil, validationError(fmt.Sprintf("%s must be a boolean", key))
	}
	return b, nil
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	return p.IsPrimary == nil && p.IsActive == nil && len(p.Sections) == 0
}

// ChangesFlags reports whether the patch touches isPrimary or isActive.
func (p *Patch) ChangesFlags() bool {
	return p.IsPrimary != nil || p.IsActive != nil
}

// ApplyPatch merges the patch sections into the payload and revalidates it.
// The payload is left untouched when any section fails.
func ApplyPatch(payload Payload, patch *Patch) (Payload, error) {
	next := payload.clone()
	for _, s := range patch.Sections {
		if err := next.applySection(s.Key, s.Raw); err != nil {
			return nil, err
		}
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}
