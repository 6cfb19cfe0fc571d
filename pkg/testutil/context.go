package testutil

import (
	"net/http"

	"bpd/pkg/requestcontext"
)

// WithActor attaches actor the way the bearer auth middleware does, for
// tests that mount handlers without the full router.
func WithActor(req *http.Request, actor requestcontext.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}
