package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RiskProfile is a named set of protocol risk parameters. Deployments
// select a profile per environment instead of editing constants.
type RiskProfile struct {
	Name       string           `yaml:"name" json:"name"`
	Code       string           `yaml:"code" json:"code"`
	Governance GovernanceParams `yaml:"governance" json:"governance"`
	Oracle     OracleParams     `yaml:"oracle" json:"oracle"`
	Breaker    BreakerParams    `yaml:"breaker" json:"breaker"`
	Vault      VaultParams      `yaml:"vault" json:"vault"`
}

// GovernanceParams are the initialize-time protocol parameters.
type GovernanceParams struct {
	EpochDurationSeconds int64  `yaml:"epoch_duration_seconds" json:"epoch_duration_seconds"`
	MaxSupplyChangeBPS   uint16 `yaml:"max_supply_change_bps" json:"max_supply_change_bps"`
	VHRThresholdBPS      uint16 `yaml:"vhr_threshold_bps" json:"vhr_threshold_bps"`
}

// OracleParams bound oracle update cadence and staleness.
type OracleParams struct {
	UpdateIntervalSeconds int64  `yaml:"update_interval_seconds" json:"update_interval_seconds"`
	SlotBuffer            uint64 `yaml:"slot_buffer" json:"slot_buffer"`
	MaxAgeSeconds         int64  `yaml:"max_age_seconds" json:"max_age_seconds"`
}

// BreakerParams configure the circuit breaker timelock.
type BreakerParams struct {
	ActivationDelaySeconds int64 `yaml:"activation_delay_seconds" json:"activation_delay_seconds"`
}

// VaultParams configure reserve vault thresholds.
type VaultParams struct {
	RebalanceThresholdBPS uint16 `yaml:"rebalance_threshold_bps" json:"rebalance_threshold_bps"`
}

// Validate rejects parameter sets the protocol would refuse at
// initialize time.
func (p *RiskProfile) Validate() error {
	if p.Governance.EpochDurationSeconds <= 0 {
		return fmt.Errorf("profile %q: epoch_duration_seconds must be positive", p.Code)
	}
	if p.Governance.MaxSupplyChangeBPS > 10_000 {
		return fmt.Errorf("profile %q: max_supply_change_bps must not exceed 10000", p.Code)
	}
	if p.Governance.VHRThresholdBPS < 10_000 {
		return fmt.Errorf("profile %q: vhr_threshold_bps must be at least 10000", p.Code)
	}
	if p.Oracle.UpdateIntervalSeconds <= 0 {
		return fmt.Errorf("profile %q: update_interval_seconds must be positive", p.Code)
	}
	if p.Breaker.ActivationDelaySeconds < 0 {
		return fmt.Errorf("profile %q: activation_delay_seconds must not be negative", p.Code)
	}
	if p.Vault.RebalanceThresholdBPS == 0 || p.Vault.RebalanceThresholdBPS > 10_000 {
		return fmt.Errorf("profile %q: rebalance_threshold_bps must be in (0, 10000]", p.Code)
	}
	return nil
}

// LoadProfile loads profile_<code>.yaml from the profiles directory.
func LoadProfile(profilesDir, code string) (*RiskProfile, error) {
	code = strings.ToLower(code)
	path := filepath.Join(profilesDir, fmt.Sprintf("profile_%s.yaml", code))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", code, err)
	}

	var profile RiskProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", code, err)
	}
	if profile.Code == "" {
		profile.Code = code
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadAllProfiles loads every profile_*.yaml file from the profiles
// directory.
func LoadAllProfiles(profilesDir string) (map[string]*RiskProfile, error) {
	matches, err := filepath.Glob(filepath.Join(profilesDir, "profile_*.yaml"))
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]*RiskProfile, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var profile RiskProfile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if profile.Code == "" {
			base := filepath.Base(path)
			profile.Code = strings.TrimSuffix(strings.TrimPrefix(base, "profile_"), ".yaml")
		}
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		profiles[profile.Code] = &profile
	}
	return profiles, nil
}

// DefaultProfile returns the baseline risk parameters used when no
// profile file is present.
func DefaultProfile() *RiskProfile {
	return &RiskProfile{
		Name: "Default",
		Code: "default",
		Governance: GovernanceParams{
			EpochDurationSeconds: 86_400,
			MaxSupplyChangeBPS:   200,
			VHRThresholdBPS:      15_000,
		},
		Oracle: OracleParams{
			UpdateIntervalSeconds: 300,
			SlotBuffer:            100,
			MaxAgeSeconds:         3_600,
		},
		Breaker: BreakerParams{
			ActivationDelaySeconds: 3_600,
		},
		Vault: VaultParams{
			RebalanceThresholdBPS: 1_500,
		},
	}
}
