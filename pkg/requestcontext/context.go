// Package requestcontext carries request-scoped values (caller, request id,
// client metadata, request time) through context.Context so services and
// stores can read them without importing net/http.
//
// Middleware writes them:
//
//	ctx = requestcontext.WithActor(ctx, actor)
//	ctx = requestcontext.WithRequestID(ctx, id)
//
// Services read them:
//
//	actor, ok := requestcontext.ActorFrom(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

// Actor is the authenticated caller after bearer verification.
type Actor struct {
	Subject    string
	Emails     []string
	GivenName  string
	FamilyName string
}

// Email returns the first email of the actor, if any.
func (a Actor) Email() string {
	if len(a.Emails) == 0 {
		return ""
	}
	return a.Emails[0]
}

// DisplayName joins given and family name.
func (a Actor) DisplayName() string {
	switch {
	case a.GivenName == "":
		return a.FamilyName
	case a.FamilyName == "":
		return a.GivenName
	default:
		return a.GivenName + " " + a.FamilyName
	}
}

type key int

const (
	actorKey key = iota
	clientIPKey
	userAgentKey
	requestIDKey
	requestTimeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// ActorFrom returns the authenticated caller. ok is false when no actor with a
// subject is present.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := value[Actor](ctx, actorKey)
	return a, ok && a.Subject != ""
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ClientIP is the resolved client address, or "".
func ClientIP(ctx context.Context) string {
	ip, _ := value[string](ctx, clientIPKey)
	return ip
}

// UserAgent is the raw User-Agent header, or "".
func UserAgent(ctx context.Context) string {
	ua, _ := value[string](ctx, userAgentKey)
	return ua
}

// WithClientMetadata stores the client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// RequestID is the id assigned by the request id middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := value[string](ctx, requestIDKey)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now returns the request time, falling back to time.Now outside HTTP.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
