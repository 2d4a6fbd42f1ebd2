package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rentwise/internal/profile/models"
	dErrors "rentwise/pkg/domain-errors"
	"rentwise/pkg/platform/httputil"
	"rentwise/pkg/requestcontext"
)

const maxPatchBytes = 1 << 20

// Service defines the profile operations exposed over HTTP.
type Service interface {
	GetOrCreatePrimaryProfile(ctx context.Context, ownerID string) (*models.Profile, error)
	ListProfiles(ctx context.Context, ownerID string) ([]models.Summary, error)
	GetProfileByType(ctx context.Context, ownerID, profileType string) (*models.Profile, error)
	CreateProfile(ctx context.Context, ownerID, profileType string, data json.RawMessage) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, callerOwnerID string, patch []byte) (*models.Profile, error)
	UpdatePrimaryProfile(ctx context.Context, ownerID string, patch []byte) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID, callerOwnerID string) error
	GetTrustScore(ctx context.Context, ownerID string) (*models.TrustScore, error)
	UpdateTrustScore(ctx context.Context, ownerID, factor string, value int) (*models.TrustScore, error)
	RecalculateTrustScore(ctx context.Context, ownerID string) (*models.TrustScore, error)
	ListAgencyMembers(ctx context.Context, profileID uuid.UUID, callerOwnerID string) ([]models.Member, error)
	AddAgencyMember(ctx context.Context, profileID uuid.UUID, callerOwnerID, memberOwnerID, role string) (*models.Member, error)
	RemoveAgencyMember(ctx context.Context, profileID uuid.UUID, callerOwnerID, targetOwnerID string) error
}

// Handler serves the /profiles routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the profile routes. Authentication is applied by the
// caller's router group.
func (h *Handler) Register(r chi.Router) {
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", h.handleListProfiles)
		r.Post("/", h.handleCreateProfile)

		r.Get("/primary", h.handleGetPrimary)
		r.Patch("/primary", h.handleUpdatePrimary)
		r.Get("/primary/trust-score", h.handleGetTrustScore)
		r.Patch("/primary/trust-score", h.handleUpdateTrustScore)
		r.Post("/primary/trust-score/recalculate", h.handleRecalculateTrustScore)

		r.Get("/type/{profileType}", h.handleGetByType)

		r.Patch("/{profileID}", h.handleUpdateProfile)
		r.Delete("/{profileID}", h.handleDeleteProfile)
		r.Get("/{profileID}/agency/memberships", h.handleListMembers)
		r.Post("/{profileID}/agency/members", h.handleAddMember)
		r.Delete("/{profileID}/agency/members/{memberOwnerID}", h.handleRemoveMember)
	})
}

func (h *Handler) handleGetPrimary(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profile, err := h.service.GetOrCreatePrimaryProfile(ctx, ownerID)
	if err != nil {
		h.fail(ctx, w, "get primary profile", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, profile, "")
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profiles, err := h.service.ListProfiles(ctx, ownerID)
	if err != nil {
		h.fail(ctx, w, "list profiles", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, profiles, "")
}

func (h *Handler) handleGetByType(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profile, err := h.service.GetProfileByType(ctx, ownerID, chi.URLParam(r, "profileType"))
	if err != nil {
		h.fail(ctx, w, "get profile by type", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, profile, "")
}

func (h *Handler) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[CreateProfileRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	profile, err := h.service.CreateProfile(ctx, ownerID, req.ProfileType, req.Data)
	if err != nil {
		h.fail(ctx, w, "create profile", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, profile, "profile created")
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}
	patch, ok := h.readPatch(w, r)
	if !ok {
		return
	}
	profile, err := h.service.UpdateProfile(ctx, profileID, ownerID, patch)
	if err != nil {
		h.fail(ctx, w, "update profile", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, profile, "profile updated")
}

func (h *Handler) handleUpdatePrimary(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	patch, ok := h.readPatch(w, r)
	if !ok {
		return
	}
	profile, err := h.service.UpdatePrimaryProfile(ctx, ownerID, patch)
	if err != nil {
		h.fail(ctx, w, "update primary profile", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, profile, "profile updated")
}

func (h *Handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProfile(ctx, profileID, ownerID); err != nil {
		h.fail(ctx, w, "delete profile", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, nil, "profile deleted")
}

func (h *Handler) handleGetTrustScore(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	score, err := h.service.GetTrustScore(ctx, ownerID)
	if err != nil {
		h.fail(ctx, w, "get trust score", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, score, "")
}

func (h *Handler) handleUpdateTrustScore(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[UpdateTrustScoreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	score, err := h.service.UpdateTrustScore(ctx, ownerID, req.Factor, *req.Value)
	if err != nil {
		h.fail(ctx, w, "update trust score", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, score, "trust score updated")
}

func (h *Handler) handleRecalculateTrustScore(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	score, err := h.service.RecalculateTrustScore(ctx, ownerID)
	if err != nil {
		h.fail(ctx, w, "recalculate trust score", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, score, "trust score recalculated")
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}
	members, err := h.service.ListAgencyMembers(ctx, profileID, ownerID)
	if err != nil {
		h.fail(ctx, w, "list agency members", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, members, "")
}

func (h *Handler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[AddMemberRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	member, err := h.service.AddAgencyMember(ctx, profileID, ownerID, req.MemberOwnerID, req.Role)
	if err != nil {
		h.fail(ctx, w, "add agency member", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, member, "member added")
}

func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, ownerID, ok := h.authenticated(w, r)
	if !ok {
		return
	}
	profileID, ok := h.profileID(w, r)
	if !ok {
		return
	}
	target := chi.URLParam(r, "memberOwnerID")
	if err := h.service.RemoveAgencyMember(ctx, profileID, ownerID, target); err != nil {
		h.fail(ctx, w, "remove agency member", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, nil, "member removed")
}

// authenticated returns the owner set by the auth middleware and writes 401
// when there is none.
func (h *Handler) authenticated(w http.ResponseWriter, r *http.Request) (context.Context, string, bool) {
	ctx := r.Context()
	ownerID := requestcontext.OwnerID(ctx)
	if ownerID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeAuthenticationRequired, "authentication required"))
		return ctx, "", false
	}
	return ctx, ownerID, true
}

func (h *Handler) profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid profile id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) readPatch(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPatchBytes))
	if err != nil {
		msg := "invalid request body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "request body too large"
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}
	if len(body) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is required"))
		return nil, false
	}
	return body, true
}

// fail logs at a level that matches the outcome and writes the envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"owner_id", requestcontext.OwnerID(ctx),
		"error", err,
	}
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		h.logger.InfoContext(ctx, op+" rejected", attrs...)
	} else {
		h.logger.ErrorContext(ctx, op+" failed", attrs...)
	}
	httputil.WriteError(w, err)
}
