package reentrancy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

func TestAcquireRelease(t *testing.T) {
	var l Lock

	require.NoError(t, l.Acquire())
	assert.True(t, l.Held())

	assert.ErrorIs(t, l.Acquire(), protoerr.ErrReentrancyDetected)

	l.Release()
	assert.False(t, l.Held())
	require.NoError(t, l.Acquire())
}

func TestWithReleasesOnSuccess(t *testing.T) {
	var l Lock

	err := l.With(func() error {
		assert.True(t, l.Held())
		return nil
	})
	require.NoError(t, err)
	assert.False(t, l.Held())
}

func TestWithReleasesOnFailure(t *testing.T) {
	var l Lock
	transferErr := errors.New("transfer failed")

	err := l.With(func() error { return transferErr })
	assert.ErrorIs(t, err, transferErr)

	// A failed guarded operation must leave the lock clear.
	assert.False(t, l.Held())
	require.NoError(t, l.Acquire())
}

func TestWithDetectsReentry(t *testing.T) {
	var l Lock

	err := l.With(func() error {
		// Simulates the guarded body re-entering via a callback.
		return l.With(func() error { return nil })
	})
	assert.ErrorIs(t, err, protoerr.ErrReentrancyDetected)
	assert.False(t, l.Held())
}
