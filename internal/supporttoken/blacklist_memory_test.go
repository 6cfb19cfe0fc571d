package supporttoken

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpd/pkg/platform/sentinel"
)

func TestInMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bl := NewInMemoryBlacklist()
	bl.now = func() time.Time { return now }

	revoked, err := bl.IsRevoked(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "fp", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "fp")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(time.Minute)
	revoked, err = bl.IsRevoked(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, revoked, "entry expires with the token")
}

func TestInMemoryBlacklist_RejectsInvalidRevocation(t *testing.T) {
	bl := NewInMemoryBlacklist()
	assert.ErrorIs(t, bl.Revoke(context.Background(), "", time.Minute), sentinel.ErrInvalidState)
	assert.ErrorIs(t, bl.Revoke(context.Background(), "fp", 0), sentinel.ErrInvalidState)
}
