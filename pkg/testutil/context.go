package testutil

import (
	"net/http"

	id "museforge/pkg/domain"
	"museforge/pkg/requestcontext"
)

// WithUserID injects a user into the request context, simulating what the
// auth middleware does for authenticated requests.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithSessionID injects a session ID into the request context.
func WithSessionID(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
}
