// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"crapsim/internal/strategy"
)

// Errors for configuration validation.
var (
	ErrNoPlayers      = errors.New("at least one player must be configured")
	ErrNoShooter      = errors.New("at least one player must be able to shoot")
	ErrBadTableLimits = errors.New("table min_bet cannot exceed max_bet")
	ErrBadPlayer      = errors.New("invalid player configuration")
	ErrBadSimulation  = errors.New("invalid simulation configuration")
)

// Config holds all simulator configuration.
type Config struct {
	Table      TableConfig      `mapstructure:"table"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Players    []PlayerConfig   `mapstructure:"players"`
}

// TableConfig holds bet limit configuration.
type TableConfig struct {
	MinBet int64 `mapstructure:"min_bet"`
	MaxBet int64 `mapstructure:"max_bet"` // 0 means no maximum
}

// SimulationConfig holds run limit configuration.
type SimulationConfig struct {
	TargetPoints int   `mapstructure:"target_points"`
	MaxRolls     int   `mapstructure:"max_rolls"`
	Seed         int64 `mapstructure:"seed"` // 0 means seed from the clock
	// MinBankroll sidelines a player whose bankroll drops to or below
	// it. MaxBankroll is a walk-away target: a player whose bankroll
	// moves above it stops betting. 0 means no maximum.
	MinBankroll int64 `mapstructure:"min_bankroll"`
	MaxBankroll int64 `mapstructure:"max_bankroll"`
}

// PlayerConfig describes one configured player.
type PlayerConfig struct {
	Name     string `mapstructure:"name"`
	Strategy string `mapstructure:"strategy"`
	Unit     int64  `mapstructure:"unit"`
	Bankroll int64  `mapstructure:"bankroll"`
	CanShoot bool   `mapstructure:"can_shoot"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the given directory, the working
// directory, and ./config. A missing file is fine when defaults and
// environment variables provide everything.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. TABLE_MIN_BET, SIMULATION_TARGET_POINTS.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Players) == 0 {
		cfg.Players = defaultPlayers()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("table.min_bet", 5)
	v.SetDefault("table.max_bet", 5000)

	v.SetDefault("simulation.target_points", 10)
	v.SetDefault("simulation.max_rolls", 1000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.min_bankroll", 0)
	v.SetDefault("simulation.max_bankroll", 0)
}

// defaultPlayers returns the players used when none are configured.
func defaultPlayers() []PlayerConfig {
	return []PlayerConfig{
		{Name: "Shooter", Strategy: strategy.NameFlatPass, Unit: 25, Bankroll: 1000, CanShoot: true},
		{Name: "Player 2", Strategy: strategy.NameFlatPass, Unit: 25, Bankroll: 1000, CanShoot: true},
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Table.MinBet < 0 {
		return fmt.Errorf("%w: table min_bet cannot be negative", ErrBadTableLimits)
	}
	if c.Table.MaxBet > 0 && c.Table.MinBet > c.Table.MaxBet {
		return fmt.Errorf("%w: min_bet %d > max_bet %d", ErrBadTableLimits, c.Table.MinBet, c.Table.MaxBet)
	}

	if c.Simulation.TargetPoints <= 0 {
		return fmt.Errorf("%w: target_points must be positive", ErrBadSimulation)
	}
	if c.Simulation.MaxRolls <= 0 {
		return fmt.Errorf("%w: max_rolls must be positive", ErrBadSimulation)
	}
	if c.Simulation.MinBankroll < 0 {
		return fmt.Errorf("%w: min_bankroll cannot be negative", ErrBadSimulation)
	}
	if c.Simulation.MaxBankroll > 0 && c.Simulation.MaxBankroll <= c.Simulation.MinBankroll {
		return fmt.Errorf("%w: max_bankroll %d must exceed min_bankroll %d",
			ErrBadSimulation, c.Simulation.MaxBankroll, c.Simulation.MinBankroll)
	}

	if len(c.Players) == 0 {
		return ErrNoPlayers
	}
	anyShooter := false
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: player %d has no name", ErrBadPlayer, i)
		}
		if p.Bankroll <= 0 {
			return fmt.Errorf("%w: player %q bankroll must be positive", ErrBadPlayer, p.Name)
		}
		if _, ok := strategy.DefaultRegistry.Get(p.Strategy); !ok {
			return fmt.Errorf("%w: player %q has unknown strategy %q (known: %s)",
				ErrBadPlayer, p.Name, p.Strategy, strings.Join(strategy.DefaultRegistry.Names(), ", "))
		}
		if p.Strategy != strategy.NameNoBet && p.Unit <= 0 {
			return fmt.Errorf("%w: player %q unit must be positive", ErrBadPlayer, p.Name)
		}
		if p.CanShoot {
			anyShooter = true
		}
	}
	if !anyShooter {
		return ErrNoShooter
	}
	return nil
}
