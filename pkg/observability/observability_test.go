package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderIsInert(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, &Config{Enabled: false})
	require.NoError(t, err)

	// no-op paths must not panic without initialized instruments
	p.RecordTransition(ctx, "create_proposal")
	p.RecordRejection(ctx, "vote", "ARS/CORE/REPLAY/INVALID_NONCE")
	p.RecordVoteStake(ctx, 10_000)

	opCtx, done := p.TrackOperation(ctx, "finalize_proposal")
	assert.NotNil(t, opCtx)
	done(errors.New("tie"))

	require.NoError(t, p.Shutdown(ctx))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ars-core", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.True(t, cfg.Enabled)
	assert.False(t, cfg.Insecure)
}
