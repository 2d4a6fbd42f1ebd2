package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rentwise/pkg/domain-errors"
)

// ProfileType tags which payload variant a profile carries. Immutable after
// creation.
type ProfileType string

const (
	ProfileTypePersonal ProfileType = "personal"
	ProfileTypeRoommate ProfileType = "roommate"
	ProfileTypeAgency   ProfileType = "agency"
	ProfileTypeBusiness ProfileType = "business"
)

// ProfileTypes lists every recognized type in a stable order.
var ProfileTypes = []ProfileType{
	ProfileTypePersonal,
	ProfileTypeRoommate,
	ProfileTypeAgency,
	ProfileTypeBusiness,
}

// ParseProfileType validates a raw type string.
func ParseProfileType(raw string) (ProfileType, error) {
	t := ProfileType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidProfileType, fmt.Sprintf("invalid profile type %q", raw))
	}
	return t, nil
}

func (t ProfileType) IsValid() bool {
	switch t {
	case ProfileTypePersonal, ProfileTypeRoommate, ProfileTypeAgency, ProfileTypeBusiness:
		return true
	}
	return false
}

func (t ProfileType) String() string { return string(t) }

// Profile is the aggregate root for a user profile.
//
// Invariants:
//   - Type never changes after construction and always matches Payload.Type()
//   - an owner has at most one profile per type and at most one primary
//   - only personal profiles carry a trust score
//   - Version increases by one on every persisted update
type Profile struct {
	ID        uuid.UUID
	OwnerID   string
	Type      ProfileType
	IsPrimary bool
	IsActive  bool
	Payload   Payload
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile builds a profile from a typed create request.
func NewProfile(ownerID string, req CreateRequest, primary bool, now time.Time) (*Profile, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner id cannot be empty")
	}
	if req == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "create request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payload := req.NewPayload(ownerID, now)
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return &Profile{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Type:      payload.Type(),
		IsPrimary: primary,
		IsActive:  primary,
		Payload:   payload,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Personal returns the personal payload when the profile is personal.
func (p *Profile) Personal() (*PersonalPayload, bool) {
	pp, ok := p.Payload.(*PersonalPayload)
	return pp, ok
}

// Agency returns the agency payload when the profile is an agency.
func (p *Profile) Agency() (*AgencyPayload, bool) {
	ap, ok := p.Payload.(*AgencyPayload)
	return ap, ok
}

// IsOwnedBy reports whether ownerID owns the profile.
func (p *Profile) IsOwnedBy(ownerID string) bool {
	return ownerID != "" && p.OwnerID == ownerID
}

// CanEdit reports whether ownerID may change payload sections. Agency
// members edit alongside the owner.
func (p *Profile) CanEdit(ownerID string) bool {
	if p.IsOwnedBy(ownerID) {
		return true
	}
	if agency, ok := p.Agency(); ok {
		_, found := agency.FindMember(ownerID)
		return found
	}
	return false
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Payload != nil {
		c.Payload = p.Payload.clone()
	}
	return &c
}

// Summary is the projection returned by profile listings.
type Summary struct {
	ID          uuid.UUID   `json:"id"`
	ProfileType ProfileType `json:"profileType"`
	IsPrimary   bool        `json:"isPrimary"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (p *Profile) Summary() Summary {
	return Summary{
		ID:          p.ID,
		ProfileType: p.Type,
		IsPrimary:   p.IsPrimary,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type profileHeader struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     string      `json:"ownerId"`
	ProfileType ProfileType `json:"profileType"`
	IsPrimary   bool        `json:"isPrimary"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// MarshalJSON flattens the payload sections next to the header fields.
func (p Profile) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := mergeObject(fields, profileHeader{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		ProfileType: p.Type,
		IsPrimary:   p.IsPrimary,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	if p.Payload != nil {
		if err := mergeObject(fields, p.Payload); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the flattened form written by MarshalJSON.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var head profileHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	payload, err := NewEmptyPayload(head.ProfileType)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return err
	}
	*p = Profile{
		ID:        head.ID,
		OwnerID:   head.OwnerID,
		Type:      head.ProfileType,
		IsPrimary: head.IsPrimary,
		IsActive:  head.IsActive,
		Payload:   payload,
		CreatedAt: head.CreatedAt,
		UpdatedAt: head.UpdatedAt,
	}
	return nil
}

func mergeObject(dst map[string]json.RawMessage, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, &dst)
}
