package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"rentwise/internal/profile/events"
	"rentwise/internal/profile/models"
	"rentwise/pkg/requestcontext"
)

// ListAgencyMembers returns the members of an agency profile. Only members
// may list them.
func (s *Service) ListAgencyMembers(ctx context.Context, profileID uuid.UUID, callerOwnerID string) (_ []models.Member, err error) {
	ctx, end := s.startOp(ctx, "list_agency_members",
		attribute.String("owner_id", callerOwnerID),
		attribute.String("profile_id", profileID.String()),
	)
	defer func() { end(err) }()

	if err := requireOwner(callerOwnerID); err != nil {
		return nil, err
	}
	p, err := s.loadByID(profileID)(ctx)
	if err != nil {
		return nil, err
	}
	return s.members.Members(p, callerOwnerID)
}

// AddAgencyMember grants memberOwnerID the given role on an agency profile.
func (s *Service) AddAgencyMember(ctx context.Context, profileID uuid.UUID, callerOwnerID, memberOwnerID, role string) (_ *models.Member, err error) {
	ctx, end := s.startOp(ctx, "add_agency_member",
		attribute.String("owner_id", callerOwnerID),
		attribute.String("profile_id", profileID.String()),
	)
	defer func() { end(err) }()

	if err := requireOwner(callerOwnerID); err != nil {
		return nil, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}

	var added models.Member
	updated, err := s.mutate(ctx, s.loadByID(profileID), func(p *models.Profile) error {
		m, err := s.members.Add(p, callerOwnerID, memberOwnerID, parsed, requestcontext.Now(ctx))
		added = m
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, updated.OwnerID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "agency member added",
		"owner_id", updated.OwnerID,
		"profile_id", updated.ID.String(),
		"member_id", added.OwnerID,
		"role", string(added.Role),
	)
	s.publish(ctx, events.TypeMemberAdded, updated, map[string]any{
		"memberOwnerId": added.OwnerID,
		"role":          string(added.Role),
	})
	return &added, nil
}

// RemoveAgencyMember removes targetOwnerID from an agency profile. The
// agency owner can never be removed.
func (s *Service) RemoveAgencyMember(ctx context.Context, profileID uuid.UUID, callerOwnerID, targetOwnerID string) (err error) {
	ctx, end := s.startOp(ctx, "remove_agency_member",
		attribute.String("owner_id", callerOwnerID),
		attribute.String("profile_id", profileID.String()),
	)
	defer func() { end(err) }()

	if err := requireOwner(callerOwnerID); err != nil {
		return err
	}
	updated, err := s.mutate(ctx, s.loadByID(profileID), func(p *models.Profile) error {
		return s.members.Remove(p, callerOwnerID, targetOwnerID)
	})
	if err != nil {
		return err
	}
	if err := s.invalidate(ctx, updated.OwnerID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "agency member removed",
		"owner_id", updated.OwnerID,
		"profile_id", updated.ID.String(),
		"member_id", targetOwnerID,
	)
	s.publish(ctx, events.TypeMemberRemoved, updated, map[string]any{"memberOwnerId": targetOwnerID})
	return nil
}
