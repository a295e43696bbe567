// Package vault guards the custodied reserve: deposit, withdraw and
// rebalance all run inside the reentrancy guard, because each wraps a
// call into the external value-transfer facility that could re-enter
// the protocol.
package vault

import (
	"bytes"
	"math"

	"github.com/ars-protocol/ars-core/pkg/fixedpoint"
	"github.com/ars-protocol/ars-core/pkg/protoerr"
	"github.com/ars-protocol/ars-core/pkg/reentrancy"
)

const bpsDenominator = 10_000

// Transfer is the external value-transfer facility. Failures propagate
// unchanged; the core never retries a transfer.
type Transfer interface {
	Transfer(source, destination string, authority []byte, amount uint64) error
}

// Rebalancer is the external reallocation strategy. The core only
// triggers it; swap routing is not its concern.
type Rebalancer interface {
	Rebalance(snapshot Snapshot) error
}

// Snapshot is the vault view handed to a Rebalancer.
type Snapshot struct {
	Balances       map[string]uint64
	TotalValueUSD  uint64
	LiabilitiesUSD uint64
	VHR            uint16
}

// Vault is the custody record for the reserve.
type Vault struct {
	authority             []byte
	holdings              map[string]string // asset -> external holding ref
	balances              map[string]uint64 // asset -> units held
	totalValueUSD         uint64            // 1e6 scale
	liabilitiesUSD        uint64            // 1e6 scale
	vhr                   uint16            // bps
	rebalanceThresholdBPS uint16
	lastRebalance         int64
	lock                  reentrancy.Lock
}

// New creates a vault owned by authority.
func New(authority []byte, rebalanceThresholdBPS uint16) (*Vault, error) {
	if rebalanceThresholdBPS == 0 || rebalanceThresholdBPS > bpsDenominator {
		return nil, protoerr.ErrInvalidRebalanceThreshold
	}
	return &Vault{
		authority:             bytes.Clone(authority),
		holdings:              make(map[string]string),
		balances:              make(map[string]uint64),
		rebalanceThresholdBPS: rebalanceThresholdBPS,
	}, nil
}

// AddAsset registers an asset sub-account and its external holding.
func (v *Vault) AddAsset(asset, holding string) {
	v.holdings[asset] = holding
	if _, ok := v.balances[asset]; !ok {
		v.balances[asset] = 0
	}
}

// Balance returns the held units of asset.
func (v *Vault) Balance(asset string) uint64 {
	return v.balances[asset]
}

// Deposit moves amount of asset from the caller's holding into the
// vault. Any party may deposit. The new balance is computed before the
// transfer so an overflow aborts with nothing moved and nothing
// mutated.
func (v *Vault) Deposit(t Transfer, from, asset string, amount uint64) error {
	if amount == 0 {
		return protoerr.ErrInvalidAmount
	}
	holding, ok := v.holdings[asset]
	if !ok {
		return protoerr.ErrInvalidReserveVault.WithDetail("unknown asset %q", asset)
	}
	newBalance, err := fixedpoint.CheckedAdd(v.balances[asset], amount)
	if err != nil {
		return protoerr.ErrArithmeticOverflow
	}

	return v.lock.With(func() error {
		if err := t.Transfer(from, holding, nil, amount); err != nil {
			return err
		}
		v.balances[asset] = newBalance
		return nil
	})
}

// Withdraw moves amount of asset from the vault to dest. Authority
// only.
func (v *Vault) Withdraw(t Transfer, caller []byte, dest, asset string, amount uint64) error {
	if !bytes.Equal(caller, v.authority) {
		return protoerr.ErrUnauthorized
	}
	if amount == 0 {
		return protoerr.ErrInvalidAmount
	}
	holding, ok := v.holdings[asset]
	if !ok {
		return protoerr.ErrInvalidReserveVault.WithDetail("unknown asset %q", asset)
	}
	if v.balances[asset] < amount {
		return protoerr.ErrInsufficientVaultBalance.WithDetail("have %d, want %d", v.balances[asset], amount)
	}
	newBalance, err := fixedpoint.CheckedSub(v.balances[asset], amount)
	if err != nil {
		return protoerr.ErrArithmeticUnderflow
	}

	return v.lock.With(func() error {
		if err := t.Transfer(holding, dest, v.authority, amount); err != nil {
			return err
		}
		v.balances[asset] = newBalance
		return nil
	})
}

// Rebalance triggers the external reallocation strategy under the
// guard and stamps lastRebalance. Authority only.
func (v *Vault) Rebalance(caller []byte, strat Rebalancer, now int64) error {
	if !bytes.Equal(caller, v.authority) {
		return protoerr.ErrUnauthorized
	}
	return v.lock.With(func() error {
		if strat != nil {
			if err := strat.Rebalance(v.Snapshot()); err != nil {
				return err
			}
		}
		v.lastRebalance = now
		return nil
	})
}

// SetValuation installs the externally computed USD valuation and
// recomputes the value-to-liability health ratio. Authority only.
func (v *Vault) SetValuation(caller []byte, totalValueUSD, liabilitiesUSD uint64) error {
	if !bytes.Equal(caller, v.authority) {
		return protoerr.ErrUnauthorized
	}
	v.totalValueUSD = totalValueUSD
	v.liabilitiesUSD = liabilitiesUSD
	v.vhr = computeVHR(totalValueUSD, liabilitiesUSD)
	return nil
}

// computeVHR returns value/liability in basis points, saturating at
// the uint16 ceiling. Zero liabilities reports the ceiling: a vault
// owing nothing is maximally healthy.
func computeVHR(total, liabilities uint64) uint16 {
	if liabilities == 0 {
		return math.MaxUint16
	}
	ratio, err := fixedpoint.CheckedMul(total, bpsDenominator)
	if err != nil {
		return math.MaxUint16
	}
	ratio /= liabilities
	if ratio > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(ratio)
}

// Snapshot returns a copy of the vault's observable state.
func (v *Vault) Snapshot() Snapshot {
	balances := make(map[string]uint64, len(v.balances))
	for k, b := range v.balances {
		balances[k] = b
	}
	return Snapshot{
		Balances:       balances,
		TotalValueUSD:  v.totalValueUSD,
		LiabilitiesUSD: v.liabilitiesUSD,
		VHR:            v.vhr,
	}
}

// VHR returns the current health ratio in basis points.
func (v *Vault) VHR() uint16 { return v.vhr }

// LastRebalance returns the last rebalance timestamp.
func (v *Vault) LastRebalance() int64 { return v.lastRebalance }

// Locked reports whether the reentrancy guard is held. Outside a
// transition this must always be false.
func (v *Vault) Locked() bool { return v.lock.Held() }
