package identity

import (
	"context"
	"testing"

	"resumehost/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Identify(t *testing.T) {
	p := NewStatic(config.IdentityConfig{
		OwnerID:      "owner-1",
		UserID:       "user-1",
		UserName:     "Jane Roe",
		UserCanWrite: true,
		DisableCopy:  true,
	})

	a, err := p.Identify(context.Background(), "1700000000000")
	require.NoError(t, err)
	b, err := p.Identify(context.Background(), "1700000000001")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "owner-1", a.OwnerID)
	assert.Equal(t, "user-1", a.UserID)
	assert.Equal(t, "Jane Roe", a.UserFriendlyName)
	assert.True(t, a.Permissions.UserCanWrite)
	assert.True(t, a.Permissions.DisableCopy)
	assert.False(t, a.Permissions.DisablePrint)
}

func TestStatic_IdentifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic(config.IdentityConfig{}).Identify(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
