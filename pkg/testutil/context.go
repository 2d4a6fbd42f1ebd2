package testutil

import (
	"net/http"

	"rentwise/pkg/requestcontext"
)

// WithOwnerID marks the request as authenticated for ownerID, the way the
// auth middleware does.
func WithOwnerID(req *http.Request, ownerID string) *http.Request {
	return req.WithContext(requestcontext.WithOwnerID(req.Context(), ownerID))
}
