// Package membership applies role-gated changes to an agency profile's
// member list. It mutates the payload in place and leaves persistence to the
// caller.
package membership

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"rentwise/internal/profile/models"
	dErrors "rentwise/pkg/domain-errors"
)

// Manager enforces who may change an agency's members and how.
//
// Invariants:
//   - exactly one member holds RoleOwner; it is the agency creator
//   - the owner member is never removed and RoleOwner is never granted
//   - only owner and admin members may add or remove members
type Manager struct{}

func New() *Manager {
	return &Manager{}
}

// Members returns the member list. Only members of the agency may read it.
func (m *Manager) Members(profile *models.Profile, callerOwnerID string) ([]models.Member, error) {
	agency, err := agencyOf(profile)
	if err != nil {
		return nil, err
	}
	if _, ok := agency.FindMember(callerOwnerID); !ok {
		return nil, dErrors.New(dErrors.CodeAccessDenied, "only agency members can view memberships")
	}
	return slices.Clone(agency.Members), nil
}

// Add appends a member with the given role.
func (m *Manager) Add(profile *models.Profile, callerOwnerID, newMemberOwnerID string, role models.Role, now time.Time) (models.Member, error) {
	agency, err := agencyOf(profile)
	if err != nil {
		return models.Member{}, err
	}
	if err := requireManager(agency, callerOwnerID); err != nil {
		return models.Member{}, err
	}

	newMemberOwnerID = strings.TrimSpace(newMemberOwnerID)
	if newMemberOwnerID == "" {
		return models.Member{}, dErrors.New(dErrors.CodeValidation, "memberOwnerId is required")
	}
	switch role {
	case models.RoleAdmin, models.RoleMember:
	case models.RoleOwner:
		return models.Member{}, dErrors.New(dErrors.CodeValidation, "an agency has exactly one owner; the owner role cannot be granted")
	default:
		return models.Member{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}
	if _, exists := agency.FindMember(newMemberOwnerID); exists {
		return models.Member{}, dErrors.New(dErrors.CodeMemberAlreadyExists, "member already exists")
	}

	member := models.Member{OwnerID: newMemberOwnerID, Role: role, AddedAt: now}
	agency.Members = append(agency.Members, member)
	return member, nil
}

// Remove deletes the target's entry. The owner member can never be removed,
// whoever asks.
func (m *Manager) Remove(profile *models.Profile, callerOwnerID, targetOwnerID string) error {
	agency, err := agencyOf(profile)
	if err != nil {
		return err
	}
	target, found := agency.FindMember(targetOwnerID)
	if found && target.Role == models.RoleOwner {
		return dErrors.New(dErrors.CodeCannotRemoveOwner, "the agency owner cannot be removed")
	}
	if err := requireManager(agency, callerOwnerID); err != nil {
		return err
	}
	if !found {
		return dErrors.New(dErrors.CodeMemberNotFound, "member not found")
	}
	agency.Members = slices.DeleteFunc(agency.Members, func(mem models.Member) bool {
		return mem.OwnerID == targetOwnerID
	})
	return nil
}

func agencyOf(profile *models.Profile) (*models.AgencyPayload, error) {
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeProfileNotFound, "profile not found")
	}
	agency, ok := profile.Agency()
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidProfileType, "membership operations require an agency profile")
	}
	return agency, nil
}

func requireManager(agency *models.AgencyPayload, callerOwnerID string) error {
	caller, ok := agency.FindMember(callerOwnerID)
	if !ok || !caller.Role.CanManageMembers() {
		return dErrors.New(dErrors.CodeInsufficientPermissions, "only agency owners and admins can manage members")
	}
	return nil
}
