// Package reentrancy provides the scoped mutual-exclusion primitive
// wrapped around every external value transfer. The execution model is
// strictly sequential, so this is not a thread lock: it stops the
// guarded code from re-entering itself through a callback issued by
// the external call.
package reentrancy

import "github.com/ars-protocol/ars-core/pkg/protoerr"

// Lock is a single-transition reentrancy flag.
type Lock struct {
	locked bool
}

// Acquire takes the lock, failing with ErrReentrancyDetected if it is
// already held.
func (l *Lock) Acquire() error {
	if l.locked {
		return protoerr.ErrReentrancyDetected
	}
	l.locked = true
	return nil
}

// Release unconditionally clears the lock.
func (l *Lock) Release() {
	l.locked = false
}

// Held reports the current lock state.
func (l *Lock) Held() bool {
	return l.locked
}

// With runs fn under the lock. The lock is released on every exit
// path, including when fn fails, so a failed transfer never bricks the
// guarded resource. fn's own error propagates unchanged.
func (l *Lock) With(fn func() error) error {
	if err := l.Acquire(); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
