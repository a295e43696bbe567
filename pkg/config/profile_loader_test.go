package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conservativeProfileYAML = `
name: Conservative
code: conservative
governance:
  epoch_duration_seconds: 86400
  max_supply_change_bps: 100
  vhr_threshold_bps: 20000
oracle:
  update_interval_seconds: 600
  slot_buffer: 200
  max_age_seconds: 1800
breaker:
  activation_delay_seconds: 7200
vault:
  rebalance_threshold_bps: 1000
`

func writeProfile(t *testing.T, dir, code, content string) {
	t.Helper()
	path := filepath.Join(dir, "profile_"+code+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "conservative", conservativeProfileYAML)

	p, err := LoadProfile(dir, "conservative")
	require.NoError(t, err)
	assert.Equal(t, "Conservative", p.Name)
	assert.Equal(t, int64(86_400), p.Governance.EpochDurationSeconds)
	assert.Equal(t, uint16(20_000), p.Governance.VHRThresholdBPS)
	assert.Equal(t, uint64(200), p.Oracle.SlotBuffer)
	assert.Equal(t, int64(7_200), p.Breaker.ActivationDelaySeconds)
}

func TestLoadProfileMissing(t *testing.T) {
	_, err := LoadProfile(t.TempDir(), "nope")
	require.Error(t, err)
}

func TestLoadProfileFillsCodeFromFilename(t *testing.T) {
	dir := t.TempDir()
	yaml := `
name: Anonymous
governance:
  epoch_duration_seconds: 3600
  max_supply_change_bps: 50
  vhr_threshold_bps: 12000
oracle:
  update_interval_seconds: 300
vault:
  rebalance_threshold_bps: 500
`
	writeProfile(t, dir, "anon", yaml)

	p, err := LoadProfile(dir, "anon")
	require.NoError(t, err)
	assert.Equal(t, "anon", p.Code)
}

func TestLoadProfileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	bad := `
name: Bad
code: bad
governance:
  epoch_duration_seconds: 0
  max_supply_change_bps: 100
  vhr_threshold_bps: 15000
oracle:
  update_interval_seconds: 300
vault:
  rebalance_threshold_bps: 1000
`
	writeProfile(t, dir, "bad", bad)

	_, err := LoadProfile(dir, "bad")
	require.ErrorContains(t, err, "epoch_duration_seconds")
}

func TestLoadAllProfiles(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "conservative", conservativeProfileYAML)

	aggressive := `
name: Aggressive
code: aggressive
governance:
  epoch_duration_seconds: 3600
  max_supply_change_bps: 1000
  vhr_threshold_bps: 11000
oracle:
  update_interval_seconds: 60
  slot_buffer: 20
vault:
  rebalance_threshold_bps: 3000
`
	writeProfile(t, dir, "aggressive", aggressive)

	profiles, err := LoadAllProfiles(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Contains(t, profiles, "conservative")
	assert.Contains(t, profiles, "aggressive")
}

func TestValidateBounds(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Validate())

	p.Governance.MaxSupplyChangeBPS = 10_001
	require.ErrorContains(t, p.Validate(), "max_supply_change_bps")

	p = DefaultProfile()
	p.Governance.VHRThresholdBPS = 9_999
	require.ErrorContains(t, p.Validate(), "vhr_threshold_bps")

	p = DefaultProfile()
	p.Vault.RebalanceThresholdBPS = 0
	require.ErrorContains(t, p.Validate(), "rebalance_threshold_bps")
}
