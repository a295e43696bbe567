// Package oracle holds the Index of Liquidity/Instability (ILI) and
// enforces freshness and bounds on updates.
//
// Freshness is anchored twice: wall-clock seconds since the last
// update AND ledger slots since the last update. Both must advance,
// which defeats clock-only spoofing on ledgers where wall time can
// drift independently of sequence progress.
package oracle

import (
	"bytes"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

const (
	// Scale is the fixed-point scale of the ILI value (1e6).
	Scale = 1_000_000
	// MaxILIValue is the sanity ceiling on an update (1e6 index units).
	MaxILIValue = 1_000_000 * Scale
	// MaxYieldBPS caps the reported average yield.
	MaxYieldBPS = 10_000
	// MaxVolatilityBPS caps the reported volatility.
	MaxVolatilityBPS = 10_000
	// DefaultSlotBuffer is the minimum slot progress between updates
	// when the profile does not override it.
	DefaultSlotBuffer = 100
	// DefaultUpdateInterval is the minimum seconds between updates.
	DefaultUpdateInterval = 300
)

// Update carries one oracle submission.
type Update struct {
	Value         uint64 // ILI, Scale fixed-point
	YieldBPS      uint32
	VolatilityBPS uint32
	TVL           uint64 // USD, Scale fixed-point
}

// Snapshot is a committed oracle observation.
type Snapshot struct {
	Timestamp     int64
	Value         uint64
	YieldBPS      uint32
	VolatilityBPS uint32
	TVL           uint64
}

// Oracle is the singleton ILI record.
type Oracle struct {
	authority      []byte
	currentILI     uint64
	lastUpdate     int64
	lastUpdateSlot uint64
	updateInterval int64
	slotBuffer     uint64
	snapshotCount  uint16
	latest         Snapshot
}

// New creates an oracle owned by authority. A non-positive interval
// falls back to DefaultUpdateInterval, a zero slot buffer to
// DefaultSlotBuffer.
func New(authority []byte, updateInterval int64, slotBuffer uint64) *Oracle {
	if updateInterval <= 0 {
		updateInterval = DefaultUpdateInterval
	}
	if slotBuffer == 0 {
		slotBuffer = DefaultSlotBuffer
	}
	return &Oracle{
		authority:      bytes.Clone(authority),
		updateInterval: updateInterval,
		slotBuffer:     slotBuffer,
	}
}

// Apply validates and commits an update. Both freshness anchors are
// checked before any bounds; nothing mutates unless every check
// passes.
func (o *Oracle) Apply(caller []byte, u Update, now int64, currentSlot uint64) error {
	if !bytes.Equal(caller, o.authority) {
		return protoerr.ErrUnauthorized
	}

	timeDelta := now - o.lastUpdate
	slotDelta := currentSlot - o.lastUpdateSlot
	if timeDelta < o.updateInterval || slotDelta < o.slotBuffer {
		return protoerr.ErrILIUpdateTooSoon.WithDetail(
			"elapsed %ds/%d slots, need %ds/%d slots",
			timeDelta, slotDelta, o.updateInterval, o.slotBuffer)
	}

	if u.Value == 0 || u.Value > MaxILIValue {
		return protoerr.ErrInvalidILIValue
	}
	if u.YieldBPS > MaxYieldBPS {
		return protoerr.ErrInvalidYield
	}
	if u.VolatilityBPS > MaxVolatilityBPS {
		return protoerr.ErrInvalidVolatility
	}
	if u.TVL == 0 {
		return protoerr.ErrInvalidTVL
	}

	o.currentILI = u.Value
	o.lastUpdate = now
	o.lastUpdateSlot = currentSlot
	if o.snapshotCount < ^uint16(0) {
		o.snapshotCount++
	}
	o.latest = Snapshot{
		Timestamp:     now,
		Value:         u.Value,
		YieldBPS:      u.YieldBPS,
		VolatilityBPS: u.VolatilityBPS,
		TVL:           u.TVL,
	}
	return nil
}

// Query returns the current ILI value. Pure read, no side effects.
func (o *Oracle) Query() uint64 {
	return o.currentILI
}

// LastUpdate returns the wall-clock freshness anchor.
func (o *Oracle) LastUpdate() int64 {
	return o.lastUpdate
}

// LastUpdateSlot returns the slot freshness anchor.
func (o *Oracle) LastUpdateSlot() uint64 {
	return o.lastUpdateSlot
}

// SnapshotCount returns the number of committed updates (saturating).
func (o *Oracle) SnapshotCount() uint16 {
	return o.snapshotCount
}

// Latest returns the most recent committed observation.
func (o *Oracle) Latest() Snapshot {
	return o.latest
}

// Stale reports whether the oracle has not been updated within
// maxAge seconds of now. Used by the circuit-breaker advisory check.
func (o *Oracle) Stale(now, maxAge int64) bool {
	return o.lastUpdate == 0 || now-o.lastUpdate > maxAge
}
