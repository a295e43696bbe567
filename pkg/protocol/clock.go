package protocol

import "time"

// Clock supplies the two freshness anchors every transition reads:
// wall-clock time and the monotonic slot counter. Tests inject fakes
// to drive temporal branches deterministically.
type Clock interface {
	Now() time.Time
	Slot() uint64
}

// SystemClock derives slots from wall time at a fixed cadence.
type SystemClock struct {
	epoch        time.Time
	slotDuration time.Duration
}

// NewSystemClock creates a clock whose slot 0 is now.
func NewSystemClock(slotDuration time.Duration) *SystemClock {
	if slotDuration <= 0 {
		slotDuration = 400 * time.Millisecond
	}
	return &SystemClock{epoch: time.Now(), slotDuration: slotDuration}
}

func (c *SystemClock) Now() time.Time { return time.Now() }

func (c *SystemClock) Slot() uint64 {
	elapsed := time.Since(c.epoch)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.slotDuration)
}
