package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rentwise/pkg/domain-errors"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func TestParseProfileType(t *testing.T) {
	for _, raw := range []string{"personal", "Roommate", " agency ", "BUSINESS"} {
		pt, err := ParseProfileType(raw)
		require.NoError(t, err, raw)
		assert.True(t, pt.IsValid())
	}

	_, err := ParseProfileType("landlord")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidProfileType))
}

func TestNewProfile_Defaults(t *testing.T) {
	t.Run("personal seeds trust score and settings", func(t *testing.T) {
		p, err := NewProfile("owner-1", NewCreatePersonalRequest(), true, fixedNow)
		require.NoError(t, err)

		personal, ok := p.Personal()
		require.True(t, ok)
		assert.Equal(t, ProfileTypePersonal, p.Type)
		assert.True(t, p.IsPrimary)
		assert.True(t, p.IsActive)
		assert.Equal(t, int64(1), p.Version)
		assert.Equal(t, BaseTrustScore, personal.TrustScore.Score)
		assert.Empty(t, personal.TrustScore.Factors)
		assert.NotNil(t, personal.TrustScore.Factors)
		assert.Equal(t, DefaultSettings(), personal.Settings)
	})

	t.Run("agency seeds creator as owner member", func(t *testing.T) {
		p, err := NewProfile("owner-a", &CreateAgencyRequest{BusinessType: "property_management"}, false, fixedNow)
		require.NoError(t, err)

		agency, ok := p.Agency()
		require.True(t, ok)
		require.Len(t, agency.Members, 1)
		assert.Equal(t, Member{OwnerID: "owner-a", Role: RoleOwner, AddedAt: fixedNow}, agency.Members[0])
		assert.False(t, p.IsActive)
	})

	t.Run("empty owner rejected", func(t *testing.T) {
		_, err := NewProfile("  ", NewCreatePersonalRequest(), true, fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("business requires legal name", func(t *testing.T) {
		_, err := NewProfile("owner-1", &CreateBusinessRequest{BusinessType: "llc"}, false, fixedNow)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestDecodeCreateRequest(t *testing.T) {
	t.Run("partial settings keep defaults", func(t *testing.T) {
		req, err := DecodeCreateRequest(ProfileTypePersonal, json.RawMessage(`{"settings":{"language":"fr"}}`))
		require.NoError(t, err)

		payload := req.NewPayload("owner-1", fixedNow).(*PersonalPayload)
		assert.Equal(t, "fr", payload.Settings.Language)
		assert.Equal(t, "USD", payload.Settings.Currency)
		assert.True(t, payload.Settings.Notifications.Email)
	})

	t.Run("empty data uses defaults", func(t *testing.T) {
		req, err := DecodeCreateRequest(ProfileTypeRoommate, nil)
		require.NoError(t, err)
		assert.Equal(t, ProfileTypeRoommate, req.ProfileType())
	})

	t.Run("trust score cannot be supplied", func(t *testing.T) {
		_, err := DecodeCreateRequest(ProfileTypePersonal, json.RawMessage(`{"trustScore":{"score":100}}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("members cannot be supplied", func(t *testing.T) {
		_, err := DecodeCreateRequest(ProfileTypeAgency, json.RawMessage(`{"businessType":"x","members":[]}`))
		require.Error(t, err)
	})

	t.Run("non-object data rejected", func(t *testing.T) {
		_, err := DecodeCreateRequest(ProfileTypeBusiness, json.RawMessage(`[1,2]`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestProfileJSONFlattensPayload(t *testing.T) {
	p, err := NewProfile("owner-1", &CreateAgencyRequest{BusinessType: "brokerage", Description: "Downtown"}, true, fixedNow)
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "agency", flat["profileType"])
	assert.Equal(t, "brokerage", flat["businessType"])
	assert.Contains(t, flat, "members")
	assert.NotContains(t, flat, "payload")
	assert.NotContains(t, flat, "version")

	var decoded Profile
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, p.ID, decoded.ID)
	agency, ok := decoded.Agency()
	require.True(t, ok)
	assert.Equal(t, "Downtown", agency.Description)
	assert.Len(t, agency.Members, 1)
}

func TestCloneIsDeep(t *testing.T) {
	p, err := NewProfile("owner-1", NewCreatePersonalRequest(), true, fixedNow)
	require.NoError(t, err)
	personal, _ := p.Personal()
	personal.References = append(personal.References, Reference{Name: "Ana"})

	c := p.Clone()
	cp, _ := c.Personal()
	cp.References[0].Name = "Changed"
	cp.TrustScore.Factors = append(cp.TrustScore.Factors, Factor{Type: "x", Value: 1})

	assert.Equal(t, "Ana", personal.References[0].Name)
	assert.Empty(t, personal.TrustScore.Factors)
}

func TestCanEdit(t *testing.T) {
	p, err := NewProfile("owner-a", &CreateAgencyRequest{BusinessType: "brokerage"}, true, fixedNow)
	require.NoError(t, err)
	agency, _ := p.Agency()
	agency.Members = append(agency.Members, Member{OwnerID: "owner-b", Role: RoleMember, AddedAt: fixedNow})

	assert.True(t, p.CanEdit("owner-a"))
	assert.True(t, p.CanEdit("owner-b"))
	assert.False(t, p.CanEdit("owner-c"))
	assert.False(t, p.IsOwnedBy("owner-b"))
}
