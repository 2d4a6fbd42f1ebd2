package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rentwise/internal/profile/handler/mocks"
	"rentwise/internal/profile/models"
	dErrors "rentwise/pkg/domain-errors"
	"rentwise/pkg/testutil"
)

const owner = "owner-1"

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithOwnerID(req, owner))
}

func (s *HandlerSuite) personal() *models.Profile {
	p, err := models.NewProfile(owner, models.NewCreatePersonalRequest(), true, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	s.Require().NoError(err)
	return p
}

func (s *HandlerSuite) TestUnauthenticated() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles/primary", nil)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED")
}

func (s *HandlerSuite) TestGetPrimary() {
	p := s.personal()
	s.service.EXPECT().GetOrCreatePrimaryProfile(gomock.Any(), owner).Return(p, nil)

	rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles/primary", nil))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.SuccessData[map[string]any](s.T(), rr)
	s.Equal(p.ID.String(), got["id"])
	s.Equal("personal", got["profileType"])
	s.Equal(true, got["isPrimary"])
	s.Contains(got, "trustScore")
}

func (s *HandlerSuite) TestListProfiles() {
	p := s.personal()
	s.service.EXPECT().ListProfiles(gomock.Any(), owner).Return([]models.Summary{p.Summary()}, nil)

	rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles", nil))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.SuccessData[[]models.Summary](s.T(), rr)
	s.Require().Len(got, 1)
	s.Equal(p.ID, got[0].ID)
}

func (s *HandlerSuite) TestGetByTypePassesPathParam() {
	s.service.EXPECT().GetProfileByType(gomock.Any(), owner, "agency").
		Return(nil, dErrors.New(dErrors.CodeProfileNotFound, "profile not found"))

	rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles/type/agency", nil))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "PROFILE_NOT_FOUND")
}

func (s *HandlerSuite) TestCreateProfile() {
	s.Run("created", func() {
		p := s.personal()
		s.service.EXPECT().
			CreateProfile(gomock.Any(), owner, "business", gomock.Any()).
			DoAndReturn(func(_ any, _ string, _ string, data json.RawMessage) (*models.Profile, error) {
				s.JSONEq(`{"businessType":"landlord"}`, string(data))
				return p, nil
			})

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/profiles", map[string]any{
			"profileType": " business ",
			"data":        map[string]any{"businessType": "landlord"},
		}))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	})

	s.Run("missing profile type", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/profiles", map[string]any{"data": map[string]any{}}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("malformed body", func() {
		rr := s.do(testutil.NewRawRequest(s.T(), http.MethodPost, "/profiles", "{"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "BAD_REQUEST")
	})

	s.Run("already exists", func() {
		s.service.EXPECT().CreateProfile(gomock.Any(), owner, "roommate", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeProfileAlreadyExists, "profile already exists"))

		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/profiles", map[string]any{"profileType": "roommate"}))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "PROFILE_ALREADY_EXISTS")
	})
}

func (s *HandlerSuite) TestUpdateProfile() {
	id := uuid.New()

	s.Run("forwards raw patch", func() {
		body := `{"personalInfo":{"occupation":"Engineer"}}`
		s.service.EXPECT().UpdateProfile(gomock.Any(), id, owner, []byte(body)).Return(s.personal(), nil)

		rr := s.do(testutil.NewRawRequest(s.T(), http.MethodPatch, "/profiles/"+id.String(), body))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("invalid id", func() {
		rr := s.do(testutil.NewRawRequest(s.T(), http.MethodPatch, "/profiles/not-a-uuid", `{}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "BAD_REQUEST")
	})

	s.Run("empty body", func() {
		rr := s.do(testutil.NewRawRequest(s.T(), http.MethodPatch, "/profiles/"+id.String(), ""))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "BAD_REQUEST")
	})

	s.Run("too large", func() {
		big := `{"personalInfo":{"bio":"` + strings.Repeat("x", maxPatchBytes) + `"}}`
		rr := s.do(testutil.NewRawRequest(s.T(), http.MethodPatch, "/profiles/"+id.String(), big))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "BAD_REQUEST")
	})

	s.Run("access denied", func() {
		s.service.EXPECT().UpdateProfile(gomock.Any(), id, owner, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeAccessDenied, "access denied"))

		rr := s.do(testutil.NewRawRequest(s.T(), http.MethodPatch, "/profiles/"+id.String(), `{"isActive":true}`))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "ACCESS_DENIED")
	})
}

func (s *HandlerSuite) TestUpdatePrimaryIsNotRoutedAsID() {
	s.service.EXPECT().UpdatePrimaryProfile(gomock.Any(), owner, gomock.Any()).Return(s.personal(), nil)

	rr := s.do(testutil.NewRawRequest(s.T(), http.MethodPatch, "/profiles/primary", `{"settings":{"language":"en"}}`))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *HandlerSuite) TestDeleteProfile() {
	id := uuid.New()

	s.Run("deleted", func() {
		s.service.EXPECT().DeleteProfile(gomock.Any(), id, owner).Return(nil)
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodDelete, "/profiles/"+id.String(), nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("primary", func() {
		s.service.EXPECT().DeleteProfile(gomock.Any(), id, owner).
			Return(dErrors.New(dErrors.CodeCannotDeletePrimary, "cannot delete primary profile"))
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodDelete, "/profiles/"+id.String(), nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "CANNOT_DELETE_PRIMARY")
	})
}

func (s *HandlerSuite) TestTrustScore() {
	score := &models.TrustScore{Score: 60, Factors: []models.Factor{{Type: "verification", Value: 10}}}

	s.Run("get", func() {
		s.service.EXPECT().GetTrustScore(gomock.Any(), owner).Return(score, nil)
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles/primary/trust-score", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(*score, testutil.SuccessData[models.TrustScore](s.T(), rr))
	})

	s.Run("update", func() {
		s.service.EXPECT().UpdateTrustScore(gomock.Any(), owner, "verification", 10).Return(score, nil)
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/profiles/primary/trust-score",
			map[string]any{"factor": "verification", "value": 10}))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("update requires value", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/profiles/primary/trust-score",
			map[string]any{"factor": "verification"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("recalculate", func() {
		s.service.EXPECT().RecalculateTrustScore(gomock.Any(), owner).Return(score, nil)
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/profiles/primary/trust-score/recalculate", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("wrong primary type", func() {
		s.service.EXPECT().GetTrustScore(gomock.Any(), owner).
			Return(nil, dErrors.New(dErrors.CodeInvalidProfileType, "trust score is only available for personal profiles"))
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles/primary/trust-score", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "INVALID_PROFILE_TYPE")
	})
}

func (s *HandlerSuite) TestAgencyMembers() {
	id := uuid.New()
	member := &models.Member{OwnerID: "owner-2", Role: models.RoleMember, AddedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}

	s.Run("list", func() {
		s.service.EXPECT().ListAgencyMembers(gomock.Any(), id, owner).Return([]models.Member{*member}, nil)
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles/"+id.String()+"/agency/memberships", nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Len(testutil.SuccessData[[]models.Member](s.T(), rr), 1)
	})

	s.Run("add", func() {
		s.service.EXPECT().AddAgencyMember(gomock.Any(), id, owner, "owner-2", "member").Return(member, nil)
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/profiles/"+id.String()+"/agency/members",
			map[string]any{"memberOwnerId": "owner-2", "role": "member"}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	})

	s.Run("add requires member", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/profiles/"+id.String()+"/agency/members",
			map[string]any{"role": "member"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("remove owner", func() {
		s.service.EXPECT().RemoveAgencyMember(gomock.Any(), id, owner, owner).
			Return(dErrors.New(dErrors.CodeCannotRemoveOwner, "cannot remove the agency owner"))
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodDelete, "/profiles/"+id.String()+"/agency/members/"+owner, nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "CANNOT_REMOVE_OWNER")
	})
}

func (s *HandlerSuite) TestInternalErrorsAreMasked() {
	s.service.EXPECT().ListProfiles(gomock.Any(), owner).Return(nil, io.ErrUnexpectedEOF)

	rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/profiles", nil))

	testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	env := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("INTERNAL_ERROR", env.Error.Code)
	s.Equal("internal server error", env.Error.Message)
}
