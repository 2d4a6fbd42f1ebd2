package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names a profile lifecycle event.
type Type string

const (
	TypeProfileCreated    Type = "profile.created"
	TypeProfileUpdated    Type = "profile.updated"
	TypeProfileDeleted    Type = "profile.deleted"
	TypeTrustScoreUpdated Type = "profile.trust_score_updated"
	TypeMemberAdded       Type = "profile.member_added"
	TypeMemberRemoved     Type = "profile.member_removed"
)

// Event is the message published for every successful profile write.
// Payload carries event-specific detail and is never the full profile.
type Event struct {
	ID          uuid.UUID      `json:"id"`
	Type        Type           `json:"type"`
	OwnerID     string         `json:"ownerId"`
	ProfileID   uuid.UUID      `json:"profileId"`
	ProfileType string         `json:"profileType"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// New stamps an event with a fresh id.
func New(t Type, ownerID string, profileID uuid.UUID, profileType string, at time.Time, payload map[string]any) Event {
	return Event{
		ID:          uuid.New(),
		Type:        t,
		OwnerID:     ownerID,
		ProfileID:   profileID,
		ProfileType: profileType,
		OccurredAt:  at,
		Payload:     payload,
	}
}

// Publisher delivers profile events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType filters recorded events by type.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, evt := range r.Events() {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}
