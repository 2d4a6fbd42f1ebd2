package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	dErrors "rentwise/pkg/domain-errors"
)

// Payload is the sum type of the per-type profile content. The unexported
// methods seal it to the four variants declared in this package, so a type
// switch over *PersonalPayload, *RoommatePayload, *AgencyPayload and
// *BusinessPayload is exhaustive.
type Payload interface {
	Type() ProfileType
	Validate() error
	applySection(key string, raw json.RawMessage) error
	clone() Payload
}

// NewEmptyPayload returns a zero payload for t, used when decoding stored
// documents.
func NewEmptyPayload(t ProfileType) (Payload, error) {
	switch t {
	case ProfileTypePersonal:
		return &PersonalPayload{}, nil
	case ProfileTypeRoommate:
		return &RoommatePayload{}, nil
	case ProfileTypeAgency:
		return &AgencyPayload{}, nil
	case ProfileTypeBusiness:
		return &BusinessPayload{}, nil
	}
	return nil, dErrors.New(dErrors.CodeInvalidProfileType, fmt.Sprintf("invalid profile type %q", t))
}

// ClonePayload deep-copies p. A nil payload stays nil.
func ClonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	return p.clone()
}

// Shared sections

type Reference struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type BusinessDetails struct {
	LicenseNumber string `json:"licenseNumber,omitempty"`
	TaxID         string `json:"taxId,omitempty"`
	Website       string `json:"website,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	FoundedYear   int    `json:"foundedYear,omitempty"`
	EmployeeCount int    `json:"employeeCount,omitempty"`
}

type BusinessVerification struct {
	Email           bool `json:"email"`
	Phone           bool `json:"phone"`
	BusinessLicense bool `json:"businessLicense"`
	TaxID           bool `json:"taxId"`
}

// Personal ------------------------------------------------------------------

type PersonalInfo struct {
	Bio              string  `json:"bio,omitempty"`
	Occupation       string  `json:"occupation,omitempty"`
	Employer         string  `json:"employer,omitempty"`
	Income           float64 `json:"income,omitempty"`
	EmploymentStatus string  `json:"employmentStatus,omitempty"`
	MoveInDate       string  `json:"moveInDate,omitempty"`
	LeaseDuration    int     `json:"leaseDuration,omitempty"`
}

type RentalPreferences struct {
	PropertyTypes []string `json:"propertyTypes,omitempty"`
	MinBudget     float64  `json:"minBudget,omitempty"`
	MaxBudget     float64  `json:"maxBudget,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	Bedrooms      int      `json:"bedrooms,omitempty"`
	PetFriendly   bool     `json:"petFriendly"`
	Smoking       bool     `json:"smoking"`
	Parking       bool     `json:"parking"`
}

type RentalRecord struct {
	Address         string  `json:"address"`
	LandlordName    string  `json:"landlordName,omitempty"`
	LandlordContact string  `json:"landlordContact,omitempty"`
	StartDate       string  `json:"startDate,omitempty"`
	EndDate         string  `json:"endDate,omitempty"`
	MonthlyRent     float64 `json:"monthlyRent,omitempty"`
	Evicted         bool    `json:"evicted"`
}

// Complete reports whether the record carries enough to be checked.
func (r RentalRecord) Complete() bool {
	return r.Address != "" && r.LandlordName != "" && r.StartDate != ""
}

type PersonalVerification struct {
	Email           bool `json:"email"`
	Phone           bool `json:"phone"`
	Identity        bool `json:"identity"`
	Income          bool `json:"income"`
	BackgroundCheck bool `json:"backgroundCheck"`
	BusinessLicense bool `json:"businessLicense"`
}

type NotificationSettings struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility"`
	ShowContactInfo   bool   `json:"showContactInfo"`
}

type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Language      string               `json:"language"`
	Currency      string               `json:"currency"`
	Timezone      string               `json:"timezone"`
}

// DefaultSettings is applied to every new personal profile.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{Email: true, SMS: false, Push: true},
		Privacy:       PrivacySettings{ProfileVisibility: VisibilityPublic, ShowContactInfo: false},
		Language:      "en",
		Currency:      "USD",
		Timezone:      "UTC",
	}
}

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
	VisibilityMembers = "members"
)

type PersonalPayload struct {
	PersonalInfo  PersonalInfo         `json:"personalInfo"`
	Preferences   RentalPreferences    `json:"preferences"`
	References    []Reference          `json:"references"`
	RentalHistory []RentalRecord       `json:"rentalHistory"`
	Verification  PersonalVerification `json:"verification"`
	TrustScore    TrustScore           `json:"trustScore"`
	Settings      Settings             `json:"settings"`
}

// NewPersonalPayload returns a personal payload with every default applied.
func NewPersonalPayload() *PersonalPayload {
	return &PersonalPayload{
		References:    []Reference{},
		RentalHistory: []RentalRecord{},
		TrustScore:    NewTrustScore(),
		Settings:      DefaultSettings(),
	}
}

func (p *PersonalPayload) Type() ProfileType { return ProfileTypePersonal }

func (p *PersonalPayload) Validate() error {
	info := p.PersonalInfo
	if info.Income < 0 {
		return validationError("personalInfo.income cannot be negative")
	}
	if info.LeaseDuration < 0 || info.LeaseDuration > 120 {
		return validationError("personalInfo.leaseDuration must be between 0 and 120 months")
	}
	if err := validateDate("personalInfo.moveInDate", info.MoveInDate); err != nil {
		return err
	}
	if err := validateBudget("preferences", p.Preferences.MinBudget, p.Preferences.MaxBudget); err != nil {
		return err
	}
	if err := validateReferences(p.References); err != nil {
		return err
	}
	for i, r := range p.RentalHistory {
		if r.Address == "" {
			return validationError(fmt.Sprintf("rentalHistory[%d].address is required", i))
		}
		if err := validateDate(fmt.Sprintf("rentalHistory[%d].startDate", i), r.StartDate); err != nil {
			return err
		}
		if err := validateDate(fmt.Sprintf("rentalHistory[%d].endDate", i), r.EndDate); err != nil {
			return err
		}
	}
	switch p.Settings.Privacy.ProfileVisibility {
	case VisibilityPublic, VisibilityPrivate, VisibilityMembers:
	default:
		return validationError("settings.privacy.profileVisibility must be public, private or members")
	}
	return nil
}

func (p *PersonalPayload) applySection(key string, raw json.RawMessage) error {
	switch key {
	case "personalInfo":
		return decodeSection(key, raw, &p.PersonalInfo)
	case "preferences":
		return decodeSection(key, raw, &p.Preferences)
	case "references":
		return replaceList(key, raw, &p.References)
	case "rentalHistory":
		return replaceList(key, raw, &p.RentalHistory)
	case "verification":
		return decodeSection(key, raw, &p.Verification)
	case "settings":
		return decodeSection(key, raw, &p.Settings)
	}
	return unknownSection(ProfileTypePersonal, key)
}

func (p *PersonalPayload) clone() Payload {
	c := *p
	c.Preferences.PropertyTypes = slices.Clone(p.Preferences.PropertyTypes)
	c.Preferences.Locations = slices.Clone(p.Preferences.Locations)
	c.References = slices.Clone(p.References)
	c.RentalHistory = slices.Clone(p.RentalHistory)
	c.TrustScore = p.TrustScore.Clone()
	return &c
}

// Completeness counts how many personal info fields are filled in.
func (p *PersonalPayload) Completeness() (filled, total int) {
	info := p.PersonalInfo
	checks := []bool{
		info.Bio != "",
		info.Occupation != "",
		info.Employer != "",
		info.Income > 0,
		info.EmploymentStatus != "",
		info.MoveInDate != "",
		info.LeaseDuration > 0,
	}
	for _, ok := range checks {
		if ok {
			filled++
		}
	}
	return filled, len(checks)
}

// Roommate ------------------------------------------------------------------

type IntRange struct {
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

type BudgetRange struct {
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

type RoommatePreferences struct {
	AgeRange    IntRange    `json:"ageRange"`
	Gender      string      `json:"gender,omitempty"`
	Lifestyle   []string    `json:"lifestyle,omitempty"`
	Cleanliness string      `json:"cleanliness,omitempty"`
	NoiseLevel  string      `json:"noiseLevel,omitempty"`
	Guests      string      `json:"guests,omitempty"`
	Smoking     bool        `json:"smoking"`
	Pets        bool        `json:"pets"`
	Budget      BudgetRange `json:"budget"`
	MoveInDate  string      `json:"moveInDate,omitempty"`
	Location    string      `json:"location,omitempty"`
}

type RoommateRecord struct {
	Name  string `json:"name"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type RoommatePayload struct {
	RoommatePreferences RoommatePreferences `json:"roommatePreferences"`
	RoommateHistory     []RoommateRecord    `json:"roommateHistory"`
	References          []Reference         `json:"references"`
}

func NewRoommatePayload() *RoommatePayload {
	return &RoommatePayload{
		RoommateHistory: []RoommateRecord{},
		References:      []Reference{},
	}
}

func (p *RoommatePayload) Type() ProfileType { return ProfileTypeRoommate }

func (p *RoommatePayload) Validate() error {
	age := p.RoommatePreferences.AgeRange
	if age.Min < 0 || age.Max < 0 || (age.Max > 0 && age.Min > age.Max) {
		return validationError("roommatePreferences.ageRange is invalid")
	}
	if err := validateBudget("roommatePreferences.budget", p.RoommatePreferences.Budget.Min, p.RoommatePreferences.Budget.Max); err != nil {
		return err
	}
	if err := validateDate("roommatePreferences.moveInDate", p.RoommatePreferences.MoveInDate); err != nil {
		return err
	}
	for i, r := range p.RoommateHistory {
		if r.Name == "" {
			return validationError(fmt.Sprintf("roommateHistory[%d].name is required", i))
		}
	}
	return validateReferences(p.References)
}

func (p *RoommatePayload) applySection(key string, raw json.RawMessage) error {
	switch key {
	case "roommatePreferences":
		return decodeSection(key, raw, &p.RoommatePreferences)
	case "roommateHistory":
		return replaceList(key, raw, &p.RoommateHistory)
	case "references":
		return replaceList(key, raw, &p.References)
	}
	return unknownSection(ProfileTypeRoommate, key)
}

func (p *RoommatePayload) clone() Payload {
	c := *p
	c.RoommatePreferences.Lifestyle = slices.Clone(p.RoommatePreferences.Lifestyle)
	c.RoommateHistory = slices.Clone(p.RoommateHistory)
	c.References = slices.Clone(p.References)
	return &c
}

// Agency --------------------------------------------------------------------

type AgencyPayload struct {
	BusinessType    string               `json:"businessType"`
	Description     string               `json:"description,omitempty"`
	BusinessDetails BusinessDetails      `json:"businessDetails"`
	Verification    BusinessVerification `json:"verification"`
	Ratings         Ratings              `json:"ratings"`
	Members         []Member             `json:"members"`
}

// NewAgencyPayload seeds the member list with the creating owner.
func NewAgencyPayload(ownerID string, now time.Time) *AgencyPayload {
	return &AgencyPayload{
		Members: []Member{{OwnerID: ownerID, Role: RoleOwner, AddedAt: now}},
	}
}

func (p *AgencyPayload) Type() ProfileType { return ProfileTypeAgency }

func (p *AgencyPayload) Validate() error {
	if p.BusinessType == "" {
		return validationError("businessType is required")
	}
	if err := validateBusinessDetails(p.BusinessDetails); err != nil {
		return err
	}
	owners := 0
	seen := make(map[string]struct{}, len(p.Members))
	for _, m := range p.Members {
		if !m.Role.IsValid() {
			return validationError(fmt.Sprintf("member %q has invalid role %q", m.OwnerID, m.Role))
		}
		if _, dup := seen[m.OwnerID]; dup {
			return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("member %q listed twice", m.OwnerID))
		}
		seen[m.OwnerID] = struct{}{}
		if m.Role == RoleOwner {
			owners++
		}
	}
	if owners != 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "agency must have exactly one owner member")
	}
	return nil
}

func (p *AgencyPayload) applySection(key string, raw json.RawMessage) error {
	switch key {
	case "businessType":
		return replaceScalar(key, raw, &p.BusinessType)
	case "description":
		return replaceScalar(key, raw, &p.Description)
	case "businessDetails":
		return decodeSection(key, raw, &p.BusinessDetails)
	case "verification":
		return decodeSection(key, raw, &p.Verification)
	}
	return unknownSection(ProfileTypeAgency, key)
}

func (p *AgencyPayload) clone() Payload {
	c := *p
	c.Members = slices.Clone(p.Members)
	return &c
}

// FindMember returns the member entry for ownerID.
func (p *AgencyPayload) FindMember(ownerID string) (Member, bool) {
	for _, m := range p.Members {
		if m.OwnerID == ownerID {
			return m, true
		}
	}
	return Member{}, false
}

// Business ------------------------------------------------------------------

type BusinessPayload struct {
	BusinessType     string               `json:"businessType"`
	LegalCompanyName string               `json:"legalCompanyName"`
	Description      string               `json:"description,omitempty"`
	BusinessDetails  BusinessDetails      `json:"businessDetails"`
	Verification     BusinessVerification `json:"verification"`
	Ratings          Ratings              `json:"ratings"`
}

func NewBusinessPayload() *BusinessPayload {
	return &BusinessPayload{}
}

func (p *BusinessPayload) Type() ProfileType { return ProfileTypeBusiness }

func (p *BusinessPayload) Validate() error {
	if p.BusinessType == "" {
		return validationError("businessType is required")
	}
	if p.LegalCompanyName == "" {
		return validationError("legalCompanyName is required")
	}
	return validateBusinessDetails(p.BusinessDetails)
}

func (p *BusinessPayload) applySection(key string, raw json.RawMessage) error {
	switch key {
	case "businessType":
		return replaceScalar(key, raw, &p.BusinessType)
	case "legalCompanyName":
		return replaceScalar(key, raw, &p.LegalCompanyName)
	case "description":
		return replaceScalar(key, raw, &p.Description)
	case "businessDetails":
		return decodeSection(key, raw, &p.BusinessDetails)
	case "verification":
		return decodeSection(key, raw, &p.Verification)
	}
	return unknownSection(ProfileTypeBusiness, key)
}

func (p *BusinessPayload) clone() Payload {
	c := *p
	return &c
}

// Section helpers -----------------------------------------------------------

// decodeSection decodes raw onto the existing value, so keys absent from raw
// keep their current value.
func decodeSection(key string, raw json.RawMessage, dst any) error {
	if isNull(raw) {
		return validationError(fmt.Sprintf("%s cannot be null", key))
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.TrimSpace(raw)[0] != '{' {
		return validationError(fmt.Sprintf("%s must be an object", key))
	}
	return strictDecode(key, raw, dst)
}

// replaceList swaps a list section wholesale.
func replaceList[T any](key string, raw json.RawMessage, dst *[]T) error {
	if isNull(raw) {
		*dst = []T{}
		return nil
	}
	var list []T
	if err := strictDecode(key, raw, &list); err != nil {
		return err
	}
	if list == nil {
		list = []T{}
	}
	*dst = list
	return nil
}

func replaceScalar(key string, raw json.RawMessage, dst *string) error {
	if isNull(raw) {
		*dst = ""
		return nil
	}
	return strictDecode(key, raw, dst)
}

func strictDecode(key string, raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return validationError(fmt.Sprintf("invalid %s: %v", key, err))
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func unknownSection(t ProfileType, key string) error {
	return validationError(fmt.Sprintf("field %q is not valid for %s profiles", key, t))
}

func validationError(msg string) error {
	return dErrors.New(dErrors.CodeValidation, msg)
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return validationError(fmt.Sprintf("%s must be a YYYY-MM-DD date", field))
	}
	return nil
}

func validateBudget(field string, minBudget, maxBudget float64) error {
	if minBudget < 0 || maxBudget < 0 {
		return validationError(field + " budget cannot be negative")
	}
	if maxBudget > 0 && minBudget > maxBudget {
		return validationError(field + " minimum budget exceeds maximum")
	}
	return nil
}

func validateReferences(refs []Reference) error {
	for i, r := range refs {
		if r.Name == "" {
			return validationError(fmt.Sprintf("references[%d].name is required", i))
		}
	}
	return nil
}

func validateBusinessDetails(d BusinessDetails) error {
	if d.FoundedYear < 0 || d.EmployeeCount < 0 {
		return validationError("businessDetails values cannot be negative")
	}
	return nil
}
