package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crapsim/internal/strategy"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return dir
}

// TestLoad tests loading a full configuration file.
func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
table:
  min_bet: 10
  max_bet: 500
simulation:
  target_points: 3
  max_rolls: 250
  seed: 42
players:
  - name: Alice
    strategy: flat_pass
    unit: 25
    bankroll: 1000
    can_shoot: true
  - name: Bob
    strategy: martingale
    unit: 10
    bankroll: 500
    can_shoot: false
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(10), cfg.Table.MinBet)
	assert.Equal(t, int64(500), cfg.Table.MaxBet)
	assert.Equal(t, 3, cfg.Simulation.TargetPoints)
	assert.Equal(t, 250, cfg.Simulation.MaxRolls)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)

	require.Len(t, cfg.Players, 2)
	assert.Equal(t, "Alice", cfg.Players[0].Name)
	assert.Equal(t, strategy.NameMartingale, cfg.Players[1].Strategy)
	assert.False(t, cfg.Players[1].CanShoot)
}

// TestLoad_Defaults tests that a missing file falls back to defaults
// with the built-in player roster.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, int64(5), cfg.Table.MinBet)
	assert.Equal(t, 10, cfg.Simulation.TargetPoints)
	assert.Equal(t, 1000, cfg.Simulation.MaxRolls)
	assert.Zero(t, cfg.Simulation.MinBankroll)
	assert.Zero(t, cfg.Simulation.MaxBankroll, "no walk-away target by default")
	require.NotEmpty(t, cfg.Players)
	for _, p := range cfg.Players {
		assert.Equal(t, strategy.NameFlatPass, p.Strategy)
	}
}

// TestLoad_UnknownStrategy tests that an unknown strategy name is
// rejected at load time.
func TestLoad_UnknownStrategy(t *testing.T) {
	dir := writeConfig(t, `
players:
  - name: Alice
    strategy: card_counting
    unit: 25
    bankroll: 1000
    can_shoot: true
`)

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrBadPlayer)
}

// TestValidate tests configuration consistency checks.
func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Table:      TableConfig{MinBet: 5, MaxBet: 1000},
			Simulation: SimulationConfig{TargetPoints: 10, MaxRolls: 100},
			Players: []PlayerConfig{
				{Name: "A", Strategy: strategy.NameFlatPass, Unit: 25, Bankroll: 1000, CanShoot: true},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"min above max", func(c *Config) { c.Table.MinBet = 2000 }, ErrBadTableLimits},
		{"negative min", func(c *Config) { c.Table.MinBet = -1 }, ErrBadTableLimits},
		{"unlimited max ok", func(c *Config) { c.Table.MaxBet = 0 }, nil},
		{"zero target points", func(c *Config) { c.Simulation.TargetPoints = 0 }, ErrBadSimulation},
		{"zero max rolls", func(c *Config) { c.Simulation.MaxRolls = 0 }, ErrBadSimulation},
		{"negative min bankroll", func(c *Config) { c.Simulation.MinBankroll = -1 }, ErrBadSimulation},
		{
			"max bankroll below min bankroll",
			func(c *Config) {
				c.Simulation.MinBankroll = 500
				c.Simulation.MaxBankroll = 500
			},
			ErrBadSimulation,
		},
		{
			"bankroll limits ok",
			func(c *Config) {
				c.Simulation.MinBankroll = 100
				c.Simulation.MaxBankroll = 4000
			},
			nil,
		},
		{"no players", func(c *Config) { c.Players = nil }, ErrNoPlayers},
		{"unnamed player", func(c *Config) { c.Players[0].Name = "" }, ErrBadPlayer},
		{"zero bankroll", func(c *Config) { c.Players[0].Bankroll = 0 }, ErrBadPlayer},
		{"zero unit", func(c *Config) { c.Players[0].Unit = 0 }, ErrBadPlayer},
		{"no shooter", func(c *Config) { c.Players[0].CanShoot = false }, ErrNoShooter},
		{
			"no-bet player needs no unit",
			func(c *Config) {
				c.Players[0].Strategy = strategy.NameNoBet
				c.Players[0].Unit = 0
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
