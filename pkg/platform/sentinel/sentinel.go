package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: record does not exist
//   - ErrConflict: a uniqueness or version check rejected the write
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
