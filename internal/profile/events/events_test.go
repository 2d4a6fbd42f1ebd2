package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderFiltersByType(t *testing.T) {
	r := &Recorder{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	require.NoError(t, r.Publish(context.Background(), New(TypeProfileCreated, "user-1", id, "personal", now, nil)))
	require.NoError(t, r.Publish(context.Background(), New(TypeTrustScoreUpdated, "user-1", id, "personal", now, map[string]any{"score": 70})))

	assert.Len(t, r.Events(), 2)
	scored := r.OfType(TypeTrustScoreUpdated)
	require.Len(t, scored, 1)
	assert.Equal(t, 70, scored[0].Payload["score"])
	assert.Empty(t, r.OfType(TypeProfileDeleted))
}

func TestEventWireFormat(t *testing.T) {
	id := uuid.New()
	evt := New(TypeMemberAdded, "user-1", id, "agency", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), map[string]any{"memberOwnerId": "user-2"})

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "profile.member_added", decoded["type"])
	assert.Equal(t, id.String(), decoded["profileId"])
	assert.Equal(t, "2026-03-01T12:00:00Z", decoded["occurredAt"])
	assert.NotEqual(t, uuid.Nil.String(), decoded["id"])
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "", nil)
	assert.Error(t, err)
}
