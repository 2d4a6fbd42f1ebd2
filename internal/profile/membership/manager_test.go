package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rentwise/internal/profile/models"
	dErrors "rentwise/pkg/domain-errors"
)

type ManagerSuite struct {
	suite.Suite
	manager *Manager
	agency  *models.Profile
	now     time.Time
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.manager = New()
	s.now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	p, err := models.NewProfile("owner-a", &models.CreateAgencyRequest{BusinessType: "brokerage"}, true, s.now)
	s.Require().NoError(err)
	s.agency = p
}

func (s *ManagerSuite) members() []models.Member {
	agency, _ := s.agency.Agency()
	return agency.Members
}

// TestAgencyLifecycle walks the owner/admin scenario end to end.
func (s *ManagerSuite) TestAgencyLifecycle() {
	s.Require().Len(s.members(), 1)
	s.Equal(models.RoleOwner, s.members()[0].Role)
	s.Equal("owner-a", s.members()[0].OwnerID)

	added, err := s.manager.Add(s.agency, "owner-a", "owner-b", models.RoleAdmin, s.now)
	s.Require().NoError(err)
	s.Equal(s.now, added.AddedAt)
	s.Len(s.members(), 2)

	err = s.manager.Remove(s.agency, "owner-b", "owner-a")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCannotRemoveOwner))

	s.Require().NoError(s.manager.Remove(s.agency, "owner-a", "owner-b"))
	s.Len(s.members(), 1)
}

func (s *ManagerSuite) TestAdd() {
	s.Run("duplicate member rejected", func() {
		_, err := s.manager.Add(s.agency, "owner-a", "owner-a", models.RoleMember, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeMemberAlreadyExists))
	})

	s.Run("plain member cannot add", func() {
		_, err := s.manager.Add(s.agency, "owner-a", "owner-m", models.RoleMember, s.now)
		s.Require().NoError(err)

		_, err = s.manager.Add(s.agency, "owner-m", "owner-x", models.RoleMember, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientPermissions))
	})

	s.Run("non-member cannot add", func() {
		_, err := s.manager.Add(s.agency, "stranger", "owner-y", models.RoleMember, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientPermissions))
	})

	s.Run("owner role cannot be granted", func() {
		_, err := s.manager.Add(s.agency, "owner-a", "owner-z", models.RoleOwner, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("admin can add", func() {
		_, err := s.manager.Add(s.agency, "owner-a", "owner-admin", models.RoleAdmin, s.now)
		s.Require().NoError(err)
		_, err = s.manager.Add(s.agency, "owner-admin", "owner-new", models.RoleMember, s.now)
		s.Require().NoError(err)
	})
}

func (s *ManagerSuite) TestRemove() {
	_, err := s.manager.Add(s.agency, "owner-a", "owner-admin", models.RoleAdmin, s.now)
	s.Require().NoError(err)

	s.Run("owner protected from every caller", func() {
		for _, caller := range []string{"owner-a", "owner-admin", "stranger"} {
			err := s.manager.Remove(s.agency, caller, "owner-a")
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeCannotRemoveOwner), caller)
		}
	})

	s.Run("unknown target not found", func() {
		err := s.manager.Remove(s.agency, "owner-a", "nobody")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeMemberNotFound))
	})

	s.Run("stranger cannot remove", func() {
		err := s.manager.Remove(s.agency, "stranger", "owner-admin")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientPermissions))
	})
}

func (s *ManagerSuite) TestMembers() {
	list, err := s.manager.Members(s.agency, "owner-a")
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.manager.Members(s.agency, "stranger")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAccessDenied))
}

func (s *ManagerSuite) TestRejectsNonAgencyProfiles() {
	for _, req := range []models.CreateRequest{
		models.NewCreatePersonalRequest(),
		&models.CreateRoommateRequest{},
		&models.CreateBusinessRequest{BusinessType: "llc", LegalCompanyName: "Acme LLC"},
	} {
		p, err := models.NewProfile("owner-a", req, false, s.now)
		s.Require().NoError(err)

		_, err = s.manager.Add(p, "owner-a", "owner-b", models.RoleMember, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidProfileType), p.Type)
		err = s.manager.Remove(p, "owner-a", "owner-b")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidProfileType), p.Type)
	}
}
