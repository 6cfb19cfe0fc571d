package recorder

import (
	"context"
	"strings"

	"github.com/mssola/useragent"

	audit "bpd/pkg/platform/audit"
	"bpd/pkg/requestcontext"
)

// EnrichFromContext fills actor and client fields the caller left empty.
// The raw User-Agent is reduced to "browser version / os" so entries stay
// small and comparable.
func EnrichFromContext(ctx context.Context, entry *audit.Entry) {
	if actor, ok := requestcontext.ActorFrom(ctx); ok {
		if entry.ActorEmail == "" {
			entry.ActorEmail = actor.Email()
		}
		if entry.ActorName == "" {
			entry.ActorName = actor.DisplayName()
		}
	}
	if entry.ClientIP == "" {
		entry.ClientIP = requestcontext.ClientIP(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = SummarizeUserAgent(requestcontext.UserAgent(ctx))
	}
}

// SummarizeUserAgent returns a short description of a User-Agent header.
func SummarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	if ua.Bot() {
		name, _ := ua.Browser()
		return "bot " + name
	}
	name, version := ua.Browser()
	parts := make([]string, 0, 3)
	if name != "" {
		parts = append(parts, strings.TrimSpace(name+" "+version))
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, os)
	}
	if ua.Mobile() {
		parts = append(parts, "mobile")
	}
	if len(parts) == 0 {
		return raw
	}
	return strings.Join(parts, " / ")
}
