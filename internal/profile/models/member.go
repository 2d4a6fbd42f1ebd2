package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "rentwise/pkg/domain-errors"
)

// Role is an agency membership role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("invalid role %q", raw))
	}
	return r, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManageMembers reports whether the role may add or remove members.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Member is one entry of an agency's member list.
type Member struct {
	OwnerID string    `json:"ownerId"`
	Role    Role      `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}
