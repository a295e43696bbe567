// Package fixedpoint provides the integer arithmetic primitives used on
// the settlement path. Floating point is forbidden there: it is
// non-deterministic across execution environments and manipulable.
package fixedpoint

import (
	"math"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

// sqrtMaxIterations caps the Newton-Raphson loop. Convergence for any
// uint64 input takes well under 20 iterations from an x/2 guess.
const sqrtMaxIterations = 20

// Sqrt returns floor(sqrt(x)) using the Babylonian (Newton-Raphson)
// method over integers. The iterate starts above the true root and
// decreases monotonically until it stops decreasing, so the returned
// value y always satisfies y*y <= x. Under-counting is the
// conservative direction for a voting-power metric.
func Sqrt(x uint64) (uint64, error) {
	if x == 0 {
		return 0, nil
	}
	if x < 4 {
		return 1, nil
	}

	z := x / 2
	y := x
	for i := 0; i < sqrtMaxIterations; i++ {
		if z >= y {
			break
		}
		y = z

		// z = (x/z + z) / 2
		div := x / z
		sum, err := CheckedAdd(div, z)
		if err != nil {
			return 0, err
		}
		z = sum / 2
	}
	return y, nil
}

// VotingPower converts a raw stake amount into quadratic voting power:
// max(1, floor(sqrt(stake))). Doubling stake less than doubles power,
// which dampens large-holder dominance.
func VotingPower(stake uint64) (uint64, error) {
	if stake == 0 {
		return 0, protoerr.ErrInvalidStakeAmount
	}
	power, err := Sqrt(stake)
	if err != nil {
		return 0, err
	}
	if power < 1 {
		power = 1
	}
	return power, nil
}

// CheckedAdd returns a+b or ErrMathOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, protoerr.ErrMathOverflow
	}
	return a + b, nil
}

// CheckedSub returns a-b or ErrMathUnderflow.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, protoerr.ErrMathUnderflow
	}
	return a - b, nil
}

// CheckedMul returns a*b or ErrMathOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, protoerr.ErrMathOverflow
	}
	return a * b, nil
}
