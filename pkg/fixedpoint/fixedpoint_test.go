package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

func TestSqrtPerfectSquares(t *testing.T) {
	cases := map[uint64]uint64{
		0:       0,
		1:       1,
		4:       2,
		9:       3,
		16:      4,
		25:      5,
		100:     10,
		2500:    50,
		10000:   100,
		1000000: 1000,
	}
	for in, want := range cases {
		got, err := Sqrt(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "sqrt(%d)", in)
	}
}

func TestSqrtNonPerfectSquares(t *testing.T) {
	cases := []struct {
		in   uint64
		want uint64
	}{
		{2, 1},
		{3, 1},
		{10, 3},
		{50, 7},
		{99, 9},
		{10001, 100},
	}
	for _, tc := range cases {
		got, err := Sqrt(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "sqrt(%d)", tc.in)
	}
}

func TestSqrtLowerBound(t *testing.T) {
	// y*y <= x must hold for large inputs too.
	for _, x := range []uint64{math.MaxUint64, math.MaxUint64 - 1, 1 << 62, 1<<32 + 1} {
		y, err := Sqrt(x)
		require.NoError(t, err)
		require.LessOrEqual(t, y, uint64(math.MaxUint32))
		assert.True(t, y*y <= x, "sqrt(%d) = %d", x, y)
	}
}

func TestVotingPower(t *testing.T) {
	cases := []struct {
		stake uint64
		want  uint64
	}{
		{1, 1},
		{2, 1},
		{4, 2},
		{100, 10},
		{2500, 50},
		{10000, 100},
		{1000000, 1000},
	}
	for _, tc := range cases {
		got, err := VotingPower(tc.stake)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "power(%d)", tc.stake)
	}
}

func TestVotingPowerZeroStake(t *testing.T) {
	_, err := VotingPower(0)
	assert.ErrorIs(t, err, protoerr.ErrInvalidStakeAmount)
}

func TestVotingPowerDampening(t *testing.T) {
	// 4x the stake must yield strictly less than 4x the power.
	small, err := VotingPower(100)
	require.NoError(t, err)
	large, err := VotingPower(400)
	require.NoError(t, err)
	assert.Greater(t, large, small)
	assert.Less(t, large, small*4)
}

func TestCheckedAdd(t *testing.T) {
	got, err := CheckedAdd(2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)

	_, err = CheckedAdd(math.MaxUint64, 1)
	assert.ErrorIs(t, err, protoerr.ErrMathOverflow)

	got, err = CheckedAdd(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)
}

func TestCheckedSub(t *testing.T) {
	got, err := CheckedSub(5, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got)

	_, err = CheckedSub(3, 5)
	assert.ErrorIs(t, err, protoerr.ErrMathUnderflow)
}

func TestCheckedMul(t *testing.T) {
	got, err := CheckedMul(6, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	got, err = CheckedMul(0, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	_, err = CheckedMul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, protoerr.ErrMathOverflow)
}
