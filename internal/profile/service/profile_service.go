package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"rentwise/internal/profile/cache"
	"rentwise/internal/profile/events"
	"rentwise/internal/profile/models"
	"rentwise/internal/profile/store"
	"rentwise/internal/profile/trustscore"
	dErrors "rentwise/pkg/domain-errors"
	"rentwise/pkg/platform/sentinel"
	"rentwise/pkg/requestcontext"
)

// GetOrCreatePrimaryProfile returns the owner's primary profile whether or
// not it is active. An owner without a primary gets their personal profile
// promoted, or a default personal profile created when they have none.
// Concurrent first calls for one owner share a single resolution; across
// processes the store constraints decide and losers re-read.
func (s *Service) GetOrCreatePrimaryProfile(ctx context.Context, ownerID string) (_ *models.Profile, err error) {
	ctx, end := s.startOp(ctx, "get_or_create_primary", attribute.String("owner_id", ownerID))
	defer func() { end(err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var cached models.Profile
	if s.readCache(ctx, ownerID, cache.ViewPrimary, &cached) {
		return &cached, nil
	}

	// Waiters share this call, so it must not die with the first caller.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.primary.Do(ownerID, func() (any, error) {
		return s.resolvePrimary(shared, ownerID)
	})
	if err != nil {
		return nil, err
	}
	p := v.(*models.Profile).Clone()
	s.writeCache(ctx, ownerID, cache.ViewPrimary, p)
	return p, nil
}

func (s *Service) resolvePrimary(ctx context.Context, ownerID string) (*models.Profile, error) {
	now := requestcontext.Now(ctx)
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		primary, err := s.profiles.FindPrimary(ctx, ownerID)
		if err == nil {
			return primary, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load primary profile")
		}

		personal, err := s.profiles.FindByOwnerAndType(ctx, ownerID, models.ProfileTypePersonal)
		switch {
		case err == nil:
			if err := s.profiles.SetPrimary(ctx, ownerID, personal.ID, now); err != nil {
				if errors.Is(err, sentinel.ErrConflict) || errors.Is(err, sentinel.ErrNotFound) {
					continue
				}
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to promote personal profile")
			}
			promoted, err := s.profiles.FindByID(ctx, personal.ID)
			if err != nil {
				return nil, s.invalidateAfter(ctx, ownerID, storeError(err, "failed to reload promoted profile"))
			}
			if err := s.invalidate(ctx, ownerID); err != nil {
				return nil, err
			}
			s.logger.InfoContext(ctx, "personal profile promoted to primary",
				"owner_id", ownerID,
				"profile_id", promoted.ID.String(),
			)
			s.publish(ctx, events.TypeProfileUpdated, promoted, map[string]any{"isPrimary": true})
			return promoted, nil

		case errors.Is(err, sentinel.ErrNotFound):
			created, err := models.NewProfile(ownerID, models.NewCreatePersonalRequest(), true, now)
			if err != nil {
				return nil, err
			}
			scorePersonal(created)
			if err := s.profiles.Create(ctx, created); err != nil {
				if errors.Is(err, sentinel.ErrConflict) {
					continue
				}
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create primary profile")
			}
			if err := s.invalidate(ctx, ownerID); err != nil {
				return nil, err
			}
			s.recordCreated(ctx, created)
			return created, nil

		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load personal profile")
		}
	}
	return nil, dErrors.New(dErrors.CodeConflict, "primary profile is being changed concurrently, retry the request")
}

// ListProfiles returns summaries of the owner's profiles. When stored data
// has several active profiles, the most recently updated one is kept
// active, the rest are reported inactive and the store is repaired.
func (s *Service) ListProfiles(ctx context.Context, ownerID string) (_ []models.Summary, err error) {
	ctx, end := s.startOp(ctx, "list_profiles", attribute.String("owner_id", ownerID))
	defer func() { end(err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	profiles, err := s.profiles.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list profiles")
	}

	if winner := activeWinner(profiles); winner != nil {
		for _, p := range profiles {
			p.IsActive = p.ID == winner.ID
		}
		s.repairActive(ctx, ownerID, winner.ID)
	}

	out := make([]models.Summary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Summary())
	}
	return out, nil
}

// activeWinner returns the profile that should stay active when more than
// one is, and nil otherwise.
func activeWinner(profiles []*models.Profile) *models.Profile {
	var winner *models.Profile
	active := 0
	for _, p := range profiles {
		if !p.IsActive {
			continue
		}
		active++
		if winner == nil || p.UpdatedAt.After(winner.UpdatedAt) {
			winner = p
		}
	}
	if active < 2 {
		return nil
	}
	return winner
}

func (s *Service) repairActive(ctx context.Context, ownerID string, winner uuid.UUID) {
	s.logger.WarnContext(ctx, "repairing multiple active profiles",
		"owner_id", ownerID,
		"profile_id", winner.String(),
	)
	if err := s.profiles.ActivateExclusive(ctx, ownerID, winner, requestcontext.Now(ctx)); err != nil {
		s.logger.ErrorContext(ctx, "active profile repair failed", "owner_id", ownerID, "error", err)
		return
	}
	if err := s.invalidate(ctx, ownerID); err != nil {
		s.logger.ErrorContext(ctx, "cache invalidation after active repair failed", "owner_id", ownerID, "error", err)
	}
}

// GetProfileByType fetches the owner's profile of the given type.
func (s *Service) GetProfileByType(ctx context.Context, ownerID, profileType string) (_ *models.Profile, err error) {
	ctx, end := s.startOp(ctx, "get_profile_by_type",
		attribute.String("owner_id", ownerID),
		attribute.String("profile_type", profileType),
	)
	defer func() { end(err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	t, err := models.ParseProfileType(profileType)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.FindByOwnerAndType(ctx, ownerID, t)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeProfileNotFound, "no "+string(t)+" profile for this owner")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return p, nil
}

// CreateProfile creates a profile of the given type from its typed create
// request. The owner's first profile becomes primary and active.
func (s *Service) CreateProfile(ctx context.Context, ownerID, profileType string, data json.RawMessage) (_ *models.Profile, err error) {
	ctx, end := s.startOp(ctx, "create_profile",
		attribute.String("owner_id", ownerID),
		attribute.String("profile_type", profileType),
	)
	defer func() { end(err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	t, err := models.ParseProfileType(profileType)
	if err != nil {
		return nil, err
	}
	req, err := models.DecodeCreateRequest(t, data)
	if err != nil {
		return nil, err
	}

	// Fast path only; the store constraint is authoritative.
	if _, err := s.profiles.FindByOwnerAndType(ctx, ownerID, t); err == nil {
		return nil, alreadyExists(t)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing profile")
	}

	primary := false
	if _, err := s.profiles.FindPrimary(ctx, ownerID); errors.Is(err, sentinel.ErrNotFound) {
		primary = true
	} else if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load primary profile")
	}

	p, err := models.NewProfile(ownerID, req, primary, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	scorePersonal(p)

	err = s.profiles.Create(ctx, p)
	if errors.Is(err, store.ErrDuplicatePrimary) {
		p.IsPrimary = false
		p.IsActive = false
		err = s.profiles.Create(ctx, p)
	}
	if err != nil {
		if errors.Is(err, store.ErrDuplicateType) {
			return nil, alreadyExists(t)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}

	if err := s.invalidate(ctx, ownerID); err != nil {
		return nil, err
	}
	s.recordCreated(ctx, p)
	return p, nil
}

func alreadyExists(t models.ProfileType) error {
	return dErrors.New(dErrors.CodeProfileAlreadyExists, "owner already has a "+string(t)+" profile")
}

func (s *Service) recordCreated(ctx context.Context, p *models.Profile) {
	s.metrics.IncrementProfilesCreated(string(p.Type))
	s.logger.InfoContext(ctx, "profile created",
		"owner_id", p.OwnerID,
		"profile_id", p.ID.String(),
		"profile_type", string(p.Type),
		"is_primary", p.IsPrimary,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, events.TypeProfileCreated, p, map[string]any{"isPrimary": p.IsPrimary})
}

// UpdateProfile applies a JSON merge patch to the profile identified by id.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, callerOwnerID string, raw []byte) (_ *models.Profile, err error) {
	ctx, end := s.startOp(ctx, "update_profile",
		attribute.String("owner_id", callerOwnerID),
		attribute.String("profile_id", id.String()),
	)
	defer func() { end(err) }()

	if err := requireOwner(callerOwnerID); err != nil {
		return nil, err
	}
	patch, err := models.ParsePatch(raw)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, callerOwnerID, s.loadByID(id), patch)
}

// UpdatePrimaryProfile applies a patch to the owner's primary profile.
func (s *Service) UpdatePrimaryProfile(ctx context.Context, ownerID string, raw []byte) (_ *models.Profile, err error) {
	ctx, end := s.startOp(ctx, "update_primary_profile", attribute.String("owner_id", ownerID))
	defer func() { end(err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	patch, err := models.ParsePatch(raw)
	if err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, ownerID, s.loadPrimary(ownerID), patch)
}

// applyPatch merges sections, recomputes the trust score of personal
// profiles, persists, then applies the primary and active flags.
func (s *Service) applyPatch(ctx context.Context, callerOwnerID string, load func(context.Context) (*models.Profile, error), patch *models.Patch) (*models.Profile, error) {
	authorized := func(ctx context.Context) (*models.Profile, error) {
		p, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := authorizePatch(p, callerOwnerID, patch); err != nil {
			return nil, err
		}
		return p, nil
	}

	var (
		updated *models.Profile
		err     error
	)
	if len(patch.Sections) > 0 {
		updated, err = s.mutate(ctx, authorized, func(p *models.Profile) error {
			payload, err := models.ApplyPatch(p.Payload, patch)
			if err != nil {
				return err
			}
			p.Payload = payload
			scorePersonal(p)
			return nil
		})
	} else {
		updated, err = authorized(ctx)
	}
	if err != nil {
		return nil, err
	}

	if patch.ChangesFlags() {
		ownerID, id := updated.OwnerID, updated.ID
		err := s.applyFlags(ctx, updated, patch)
		if err == nil {
			updated, err = s.loadByID(id)(ctx)
		}
		if err != nil {
			// Sections or earlier flags may already be stored.
			return nil, s.invalidateAfter(ctx, ownerID, err)
		}
	}
	if patch.Empty() {
		return updated, nil
	}

	if err := s.invalidate(ctx, updated.OwnerID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "profile updated",
		"owner_id", updated.OwnerID,
		"profile_id", updated.ID.String(),
		"caller_id", callerOwnerID,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, events.TypeProfileUpdated, updated, patchSummary(patch))
	if personal, ok := updated.Personal(); ok && len(patch.Sections) > 0 {
		s.metrics.ObserveTrustScore("recalculate", personal.TrustScore.Score)
	}
	return updated, nil
}

func authorizePatch(p *models.Profile, callerOwnerID string, patch *models.Patch) error {
	if !p.CanEdit(callerOwnerID) {
		return dErrors.New(dErrors.CodeAccessDenied, "not allowed to update this profile")
	}
	if patch.ChangesFlags() && !p.IsOwnedBy(callerOwnerID) {
		return dErrors.New(dErrors.CodeAccessDenied, "only the owner can change primary or active status")
	}
	if patch.IsPrimary != nil && !*patch.IsPrimary && p.IsPrimary {
		return dErrors.New(dErrors.CodeValidation, "cannot unset the primary profile; make another profile primary instead")
	}
	return nil
}

func (s *Service) applyFlags(ctx context.Context, p *models.Profile, patch *models.Patch) error {
	now := requestcontext.Now(ctx)
	if patch.IsPrimary != nil && *patch.IsPrimary && !p.IsPrimary {
		if err := s.profiles.SetPrimary(ctx, p.OwnerID, p.ID, now); err != nil {
			return storeError(err, "failed to set primary profile")
		}
	}
	if patch.IsActive != nil {
		var err error
		if *patch.IsActive {
			err = s.profiles.ActivateExclusive(ctx, p.OwnerID, p.ID, now)
		} else if p.IsActive {
			err = s.profiles.Deactivate(ctx, p.ID, now)
		}
		if err != nil {
			return storeError(err, "failed to change active profile")
		}
	}
	return nil
}

func patchSummary(patch *models.Patch) map[string]any {
	sections := make([]string, 0, len(patch.Sections))
	for _, sec := range patch.Sections {
		sections = append(sections, sec.Key)
	}
	summary := map[string]any{"sections": sections}
	if patch.IsPrimary != nil {
		summary["isPrimary"] = *patch.IsPrimary
	}
	if patch.IsActive != nil {
		summary["isActive"] = *patch.IsActive
	}
	return summary
}

// DeleteProfile removes a profile. Personal profiles are bound to the owner
// identity and are never deleted; the primary profile cannot be deleted.
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID, callerOwnerID string) (err error) {
	ctx, end := s.startOp(ctx, "delete_profile",
		attribute.String("owner_id", callerOwnerID),
		attribute.String("profile_id", id.String()),
	)
	defer func() { end(err) }()

	if err := requireOwner(callerOwnerID); err != nil {
		return err
	}
	p, err := s.loadByID(id)(ctx)
	if err != nil {
		return err
	}
	if !p.IsOwnedBy(callerOwnerID) {
		return dErrors.New(dErrors.CodeAccessDenied, "only the owner can delete this profile")
	}
	if err := deletable(p); err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, p.ID); err != nil {
		return storeError(err, "failed to delete profile")
	}

	if err := s.invalidate(ctx, p.OwnerID); err != nil {
		return err
	}
	s.metrics.IncrementProfilesDeleted(string(p.Type))
	s.logger.InfoContext(ctx, "profile deleted",
		"owner_id", p.OwnerID,
		"profile_id", p.ID.String(),
		"profile_type", string(p.Type),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.publish(ctx, events.TypeProfileDeleted, p, nil)
	return nil
}

func deletable(p *models.Profile) error {
	switch p.Payload.(type) {
	case *models.PersonalPayload:
		return dErrors.New(dErrors.CodeCannotDeletePersonal, "personal profiles cannot be deleted")
	case *models.RoommatePayload, *models.AgencyPayload, *models.BusinessPayload:
	default:
		return dErrors.New(dErrors.CodeInvalidProfileType, "unknown profile payload")
	}
	if p.IsPrimary {
		return dErrors.New(dErrors.CodeCannotDeletePrimary, "the primary profile cannot be deleted")
	}
	return nil
}

// scorePersonal recomputes the trust score of personal profiles in place.
func scorePersonal(p *models.Profile) {
	if personal, ok := p.Personal(); ok {
		personal.TrustScore = trustscore.Calculate(personal)
	}
}
