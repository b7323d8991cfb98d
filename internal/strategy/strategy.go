// Package strategy defines betting strategies for the craps simulator.
//
// A Strategy is a pure decision function: given the observable game
// state and a read-only view of the player, it returns the bets to
// attempt this roll. Strategies never mutate simulation state, and
// identical inputs always produce identical decisions, which keeps
// seeded runs reproducible.
package strategy

import (
	"errors"
	"fmt"

	"crapsim/internal/engine"
	"crapsim/internal/table"
)

// Errors for strategy construction.
var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrInvalidUnit     = errors.New("betting unit must be positive")
)

// Strategy names accepted in configuration.
const (
	NameFlatPass   = "flat_pass"
	NameFlatField  = "flat_field"
	NameMartingale = "martingale"
	NameNoBet      = "no_bet"
)

// GameState is the table state visible to a strategy.
type GameState struct {
	Phase          engine.Phase
	Point          int // 0 when no point is active
	HasPassLineBet bool
	HasFieldBet    bool
	TableMin       int64
	TableMax       int64 // 0 when unlimited
}

// PlayerView is a read-only snapshot of the deciding player.
type PlayerView struct {
	Bankroll           int64
	StartingBankroll   int64
	IsShooter          bool
	PassLineLossStreak int
}

// BetDecision is a single bet a strategy wants placed.
type BetDecision struct {
	Kind   table.BetKind
	Amount int64
}

// Strategy maps game and player state to bet decisions.
type Strategy interface {
	// Name returns the configuration name of the strategy.
	Name() string

	// Decide returns the bets to attempt for the current roll, in
	// placement order. It must not retain or mutate its arguments.
	Decide(game GameState, p PlayerView) []BetDecision
}

// New resolves a strategy by its configuration name.
// The unit is the base bet amount for strategies that wager.
func New(name string, unit int64) (Strategy, error) {
	factory, ok := DefaultRegistry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return factory(unit)
}

// FlatPass bets a fixed pass-line amount on every come-out roll where
// the player does not already hold a pass-line bet.
type FlatPass struct {
	unit int64
}

// NewFlatPass creates a flat pass-line strategy with the given unit.
func NewFlatPass(unit int64) (*FlatPass, error) {
	if unit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidUnit, unit)
	}
	return &FlatPass{unit: unit}, nil
}

// Name returns the configuration name of the strategy.
func (s *FlatPass) Name() string {
	return NameFlatPass
}

// Decide places one flat pass-line bet on come-out when none is held
// and the bankroll covers the unit.
func (s *FlatPass) Decide(game GameState, p PlayerView) []BetDecision {
	if game.Phase != engine.ComeOut || game.HasPassLineBet {
		return nil
	}
	if p.Bankroll < s.unit {
		return nil
	}
	return []BetDecision{{Kind: table.PassLine, Amount: s.unit}}
}

// FlatField keeps a fixed field bet working on every roll, replacing
// it whenever the previous one resolved. The field pays on 2, 3, 4,
// 9, 10, 11, and 12, so the bet turns over almost every roll.
type FlatField struct {
	unit int64
}

// NewFlatField creates a flat field strategy with the given unit.
func NewFlatField(unit int64) (*FlatField, error) {
	if unit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidUnit, unit)
	}
	return &FlatField{unit: unit}, nil
}

// Name returns the configuration name of the strategy.
func (s *FlatField) Name() string {
	return NameFlatField
}

// Decide places one field bet whenever none is held and the bankroll
// covers the unit.
func (s *FlatField) Decide(game GameState, p PlayerView) []BetDecision {
	if game.HasFieldBet {
		return nil
	}
	if p.Bankroll < s.unit {
		return nil
	}
	return []BetDecision{{Kind: table.Field, Amount: s.unit}}
}

// Martingale plays the pass line with a doubling progression: the bet
// doubles after every pass-line loss and resets to the base unit after
// a win. The wager is clamped to the bankroll and the table maximum.
type Martingale struct {
	base int64
}

// NewMartingale creates a martingale strategy with the given base unit.
func NewMartingale(base int64) (*Martingale, error) {
	if base <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidUnit, base)
	}
	return &Martingale{base: base}, nil
}

// Name returns the configuration name of the strategy.
func (s *Martingale) Name() string {
	return NameMartingale
}

// Decide sizes the next pass-line bet from the player's loss streak.
func (s *Martingale) Decide(game GameState, p PlayerView) []BetDecision {
	if game.Phase != engine.ComeOut || game.HasPassLineBet {
		return nil
	}

	amount := s.base
	for i := 0; i < p.PassLineLossStreak; i++ {
		if amount > p.Bankroll {
			break
		}
		amount *= 2
	}
	if game.TableMax > 0 && amount > game.TableMax {
		amount = game.TableMax
	}
	if amount > p.Bankroll {
		amount = p.Bankroll
	}
	if amount < game.TableMin || amount <= 0 {
		return nil
	}
	return []BetDecision{{Kind: table.PassLine, Amount: amount}}
}

// NoBet never wagers. Useful as a control group in batch studies and
// for players who only watch the table.
type NoBet struct{}

// NewNoBet creates a no-bet strategy.
func NewNoBet() *NoBet {
	return &NoBet{}
}

// Name returns the configuration name of the strategy.
func (s *NoBet) Name() string {
	return NameNoBet
}

// Decide returns no decisions.
func (s *NoBet) Decide(game GameState, p PlayerView) []BetDecision {
	return nil
}
