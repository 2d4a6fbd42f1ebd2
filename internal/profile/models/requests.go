package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	dErrors "rentwise/pkg/domain-errors"
)

// CreateRequest is the typed input for creating one profile variant. Each
// variant starts from its default constructor, so omitted fields always
// take the documented default.
type CreateRequest interface {
	ProfileType() ProfileType
	Validate() error
	NewPayload(ownerID string, now time.Time) Payload
}

// CreatePersonalRequest creates a personal profile. Trust score is derived
// and cannot be supplied.
type CreatePersonalRequest struct {
	PersonalInfo  PersonalInfo         `json:"personalInfo"`
	Preferences   RentalPreferences    `json:"preferences"`
	References    []Reference          `json:"references"`
	RentalHistory []RentalRecord       `json:"rentalHistory"`
	Verification  PersonalVerification `json:"verification"`
	Settings      Settings             `json:"settings"`
}

func NewCreatePersonalRequest() *CreatePersonalRequest {
	return &CreatePersonalRequest{Settings: DefaultSettings()}
}

func (r *CreatePersonalRequest) ProfileType() ProfileType { return ProfileTypePersonal }

func (r *CreatePersonalRequest) Validate() error { return nil }

func (r *CreatePersonalRequest) NewPayload(_ string, _ time.Time) Payload {
	p := NewPersonalPayload()
	p.PersonalInfo = r.PersonalInfo
	p.Preferences = r.Preferences
	if r.References != nil {
		p.References = r.References
	}
	if r.RentalHistory != nil {
		p.RentalHistory = r.RentalHistory
	}
	p.Verification = r.Verification
	p.Settings = r.Settings
	return p
}

type CreateRoommateRequest struct {
	RoommatePreferences RoommatePreferences `json:"roommatePreferences"`
	RoommateHistory     []RoommateRecord    `json:"roommateHistory"`
	References          []Reference         `json:"references"`
}

func (r *CreateRoommateRequest) ProfileType() ProfileType { return ProfileTypeRoommate }

func (r *CreateRoommateRequest) Validate() error { return nil }

func (r *CreateRoommateRequest) NewPayload(_ string, _ time.Time) Payload {
	p := NewRoommatePayload()
	p.RoommatePreferences = r.RoommatePreferences
	if r.RoommateHistory != nil {
		p.RoommateHistory = r.RoommateHistory
	}
	if r.References != nil {
		p.References = r.References
	}
	return p
}

// CreateAgencyRequest creates an agency profile. The creating owner becomes
// the sole owner member.
type CreateAgencyRequest struct {
	BusinessType    string               `json:"businessType"`
	Description     string               `json:"description"`
	BusinessDetails BusinessDetails      `json:"businessDetails"`
	Verification    BusinessVerification `json:"verification"`
}

func (r *CreateAgencyRequest) ProfileType() ProfileType { return ProfileTypeAgency }

func (r *CreateAgencyRequest) Validate() error {
	if r.BusinessType == "" {
		return validationError("businessType is required")
	}
	return nil
}

func (r *CreateAgencyRequest) NewPayload(ownerID string, now time.Time) Payload {
	p := NewAgencyPayload(ownerID, now)
	p.BusinessType = r.BusinessType
	p.Description = r.Description
	p.BusinessDetails = r.BusinessDetails
	p.Verification = r.Verification
	return p
}

type CreateBusinessRequest struct {
	BusinessType     string               `json:"businessType"`
	LegalCompanyName string               `json:"legalCompanyName"`
	Description      string               `json:"description"`
	BusinessDetails  BusinessDetails      `json:"businessDetails"`
	Verification     BusinessVerification `json:"verification"`
}

func (r *CreateBusinessRequest) ProfileType() ProfileType { return ProfileTypeBusiness }

func (r *CreateBusinessRequest) Validate() error {
	if r.BusinessType == "" {
		return validationError("businessType is required")
	}
	if r.LegalCompanyName == "" {
		return validationError("legalCompanyName is required")
	}
	return nil
}

func (r *CreateBusinessRequest) NewPayload(_ string, _ time.Time) Payload {
	p := NewBusinessPayload()
	p.BusinessType = r.BusinessType
	p.LegalCompanyName = r.LegalCompanyName
	p.Description = r.Description
	p.BusinessDetails = r.BusinessDetails
	p.Verification = r.Verification
	return p
}

// DefaultCreateRequest returns the create request used when a profile is
// materialized without client input.
func DefaultCreateRequest(t ProfileType) (CreateRequest, error) {
	switch t {
	case ProfileTypePersonal:
		return NewCreatePersonalRequest(), nil
	case ProfileTypeRoommate:
		return &CreateRoommateRequest{}, nil
	case ProfileTypeAgency:
		return &CreateAgencyRequest{}, nil
	case ProfileTypeBusiness:
		return &CreateBusinessRequest{}, nil
	}
	return nil, dErrors.New(dErrors.CodeInvalidProfileType, fmt.Sprintf("invalid profile type %q", t))
}

// DecodeCreateRequest decodes the client's data object for type t onto the
// variant's defaults. Unknown fields are rejected.
func DecodeCreateRequest(t ProfileType, data json.RawMessage) (CreateRequest, error) {
	req, err := DefaultCreateRequest(t)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return req, nil
	}
	if trimmed[0] != '{' {
		return nil, validationError("data must be an object")
	}
	if err := strictDecode("data", trimmed, req); err != nil {
		return nil, err
	}
	return req, nil
}
