package recorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	audit "bpd/pkg/platform/audit"
	"bpd/pkg/requestcontext"
)

func TestEnrichFromContext_KeepsExplicitValues(t *testing.T) {
	ctx := requestcontext.WithActor(context.Background(), requestcontext.Actor{
		Subject: "actor-1",
		Emails:  []string{"ctx@example.com"},
	})
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.1", "curl/8.0")

	entry := audit.Entry{ActorEmail: "explicit@example.com", ClientIP: "192.168.1.1"}
	EnrichFromContext(ctx, &entry)

	assert.Equal(t, "explicit@example.com", entry.ActorEmail)
	assert.Equal(t, "192.168.1.1", entry.ClientIP)
	assert.NotEmpty(t, entry.UserAgent)
}

func TestEnrichFromContext_NoActor(t *testing.T) {
	entry := audit.Entry{}
	EnrichFromContext(context.Background(), &entry)

	assert.Empty(t, entry.ActorEmail)
	assert.Empty(t, entry.ActorName)
	assert.Empty(t, entry.UserAgent)
}

func TestSummarizeUserAgent(t *testing.T) {
	assert.Equal(t, "", SummarizeUserAgent(""))

	firefox := SummarizeUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0")
	assert.Contains(t, firefox, "Firefox 121.0")
	assert.Contains(t, firefox, "Windows")
}
