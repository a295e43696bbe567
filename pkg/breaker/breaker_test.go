package breaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

func TestRequestActivateLifecycle(t *testing.T) {
	b := New(3600)
	assert.Equal(t, StatusIdle, b.Status())

	require.NoError(t, b.Request(1000))
	assert.Equal(t, StatusRequested, b.Status())
	assert.Equal(t, int64(1000), b.RequestedAt())

	// Before the timelock.
	assert.ErrorIs(t, b.Activate(1000+3599), protoerr.ErrCircuitBreakerTimelockNotMet)
	assert.False(t, b.Active())

	// At the timelock boundary.
	require.NoError(t, b.Activate(1000+3600))
	assert.True(t, b.Active())
	assert.Equal(t, StatusActive, b.Status())
}

func TestActivateWithoutRequest(t *testing.T) {
	b := New(3600)
	assert.ErrorIs(t, b.Activate(1_000_000), protoerr.ErrCircuitBreakerTimelockNotMet)
	assert.False(t, b.Active())
}

func TestReRequestResetsTimer(t *testing.T) {
	b := New(3600)
	require.NoError(t, b.Request(1000))
	require.NoError(t, b.Request(2000))

	assert.ErrorIs(t, b.Activate(1000+3600), protoerr.ErrCircuitBreakerTimelockNotMet)
	assert.NoError(t, b.Activate(2000+3600))
}

func TestRequestWhileActiveFails(t *testing.T) {
	b := New(3600)
	require.NoError(t, b.Request(1000))
	require.NoError(t, b.Activate(5000))

	assert.ErrorIs(t, b.Request(6000), protoerr.ErrCircuitBreakerActive)
}

func TestDeactivateIsImmediateAndUnconditional(t *testing.T) {
	b := New(3600)
	require.NoError(t, b.Request(1000))
	require.NoError(t, b.Activate(5000))

	b.Deactivate()
	assert.False(t, b.Active())
	assert.Equal(t, int64(0), b.RequestedAt())
	assert.Equal(t, StatusIdle, b.Status())

	// Deactivating an idle breaker is a no-op, never an error.
	b.Deactivate()
	assert.Equal(t, StatusIdle, b.Status())
}

func TestGate(t *testing.T) {
	b := New(3600)
	assert.NoError(t, b.Gate())

	require.NoError(t, b.Request(1000))
	assert.NoError(t, b.Gate(), "a pending request does not gate operations")

	require.NoError(t, b.Activate(5000))
	assert.ErrorIs(t, b.Gate(), protoerr.ErrCircuitBreakerActive)

	b.Deactivate()
	assert.NoError(t, b.Gate())
}

func TestRestore(t *testing.T) {
	b := New(3600)
	b.Restore(true, 1234)
	assert.True(t, b.Active())
	assert.Equal(t, int64(1234), b.RequestedAt())
	assert.Equal(t, StatusActive, b.Status())
}
