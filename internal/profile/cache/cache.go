// Package cache provides the lookaside cache in front of profile reads.
//
// Entries are keyed by (owner, view) and hold JSON bytes. There is no
// write-through: the service clears an owner's views after every write.
package cache

import (
	"context"
	"fmt"
	"time"
)

// View names a cached projection of an owner's profiles.
type View string

const (
	ViewPrimary    View = "primary"
	ViewTrustScore View = "trustScore"
)

// Views lists every view so invalidation can clear all of them.
var Views = []View{ViewPrimary, ViewTrustScore}

// DefaultTTL bounds how long a cached view is served after it was written.
const DefaultTTL = 5 * time.Minute

// Cache is the injected cache abstraction. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, ownerID string, view View) ([]byte, bool, error)
	Set(ctx context.Context, ownerID string, view View, data []byte) error
	Clear(ctx context.Context, ownerID string, views ...View) error
}

// Key renders the storage key for an owner's view.
func Key(ownerID string, view View) string {
	return fmt.Sprintf("profile:%s:%s", ownerID, view)
}
