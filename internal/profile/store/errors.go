package store

import (
	"fmt"

	"rentwise/pkg/platform/sentinel"
)

// Uniqueness violations. Both wrap sentinel.ErrConflict so callers that do
// not care which constraint fired can test for that.
var (
	ErrNotFound         = sentinel.ErrNotFound
	ErrDuplicateType    = fmt.Errorf("owner already has a profile of this type: %w", sentinel.ErrConflict)
	ErrDuplicatePrimary = fmt.Errorf("owner already has a primary profile: %w", sentinel.ErrConflict)
	ErrVersionConflict  = fmt.Errorf("profile was modified concurrently: %w", sentinel.ErrConflict)
)
