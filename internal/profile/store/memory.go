package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentwise/internal/profile/models"
)

// InMemory is a map-backed profile store with the same uniqueness and
// versioning guarantees as PostgresStore. Profiles are copied on the way in
// and out so callers never share state with the store.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (s *InMemory) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if existing.OwnerID != p.OwnerID {
			continue
		}
		if existing.Type == p.Type {
			return ErrDuplicateType
		}
		if p.IsPrimary && existing.IsPrimary {
			return ErrDuplicatePrimary
		}
	}
	s.profiles[p.ID] = p.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *InMemory) FindByOwnerAndType(_ context.Context, ownerID string, t models.ProfileType) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.OwnerID == ownerID && p.Type == t {
			return p.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemory) FindPrimary(_ context.Context, ownerID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.OwnerID == ownerID && p.IsPrimary {
			return p.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// ListByOwner returns the owner's profiles ordered by creation time.
func (s *InMemory) ListByOwner(_ context.Context, ownerID string) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Profile
	for _, p := range s.profiles {
		if p.OwnerID == ownerID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update persists the payload when p.Version matches the stored version and
// advances p.Version. Flags are changed only through SetPrimary,
// ActivateExclusive and Deactivate.
func (s *InMemory) Update(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.profiles[p.ID]
	if !ok {
		return ErrNotFound
	}
	if existing.Version != p.Version {
		return ErrVersionConflict
	}
	next := existing.Clone()
	next.Payload = models.ClonePayload(p.Payload)
	next.Version++
	next.UpdatedAt = p.UpdatedAt
	s.profiles[p.ID] = next
	p.Version = next.Version
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

// SetPrimary makes id the owner's only primary profile.
func (s *InMemory) SetPrimary(_ context.Context, ownerID string, id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.profiles[id]
	if !ok || target.OwnerID != ownerID {
		return ErrNotFound
	}
	for _, p := range s.profiles {
		if p.OwnerID == ownerID && p.IsPrimary && p.ID != id {
			p.IsPrimary = false
			p.UpdatedAt = now
		}
	}
	if !target.IsPrimary {
		target.IsPrimary = true
		target.UpdatedAt = now
	}
	return nil
}

// ActivateExclusive makes id the owner's only active profile in one step.
func (s *InMemory) ActivateExclusive(_ context.Context, ownerID string, id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.profiles[id]
	if !ok || target.OwnerID != ownerID {
		return ErrNotFound
	}
	for _, p := range s.profiles {
		if p.OwnerID != ownerID {
			continue
		}
		want := p.ID == id
		if p.IsActive != want {
			p.IsActive = want
			p.UpdatedAt = now
		}
	}
	return nil
}

func (s *InMemory) Deactivate(_ context.Context, id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return ErrNotFound
	}
	if p.IsActive {
		p.IsActive = false
		p.UpdatedAt = now
	}
	return nil
}
