package handler

import (
	"encoding/json"
	"strings"

	dErrors "rentwise/pkg/domain-errors"
)

// CreateProfileRequest is the body of POST /profiles. Data is decoded later
// into the typed create request for ProfileType.
type CreateProfileRequest struct {
	ProfileType string          `json:"profileType"`
	Data        json.RawMessage `json:"data"`
}

func (r *CreateProfileRequest) Validate() error {
	r.ProfileType = strings.TrimSpace(r.ProfileType)
	if r.ProfileType == "" {
		return dErrors.New(dErrors.CodeValidation, "profileType is required")
	}
	return nil
}

type UpdateTrustScoreRequest struct {
	Factor string `json:"factor"`
	Value  *int   `json:"value"`
}

func (r *UpdateTrustScoreRequest) Validate() error {
	r.Factor = strings.TrimSpace(r.Factor)
	if r.Factor == "" {
		return dErrors.New(dErrors.CodeValidation, "factor is required")
	}
	if r.Value == nil {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	return nil
}

type AddMemberRequest struct {
	MemberOwnerID string `json:"memberOwnerId"`
	Role          string `json:"role"`
}

func (r *AddMemberRequest) Validate() error {
	r.MemberOwnerID = strings.TrimSpace(r.MemberOwnerID)
	r.Role = strings.TrimSpace(r.Role)
	if r.MemberOwnerID == "" {
		return dErrors.New(dErrors.CodeValidation, "memberOwnerId is required")
	}
	if r.Role == "" {
		return dErrors.New(dErrors.CodeValidation, "role is required")
	}
	return nil
}
