// Package player holds per-player runtime state for a simulation run.
package player

import (
	"errors"
	"fmt"
)

// Errors for bankroll operations.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient bankroll")
	ErrNegativeCredit    = errors.New("credit amount cannot be negative")
	ErrEmptyName         = errors.New("player name cannot be empty")
	ErrNegativeBankroll  = errors.New("starting bankroll cannot be negative")
)

// State is the runtime state of one player. The bankroll is mutated
// only through Debit and Credit; Debit's guard is the sole enforcement
// point for the bankroll-never-negative invariant.
type State struct {
	Name             string
	StrategyName     string
	CanShoot         bool
	StartingBankroll int64

	bankroll      int64
	totalProfit   int64
	shooterProfit int64

	// IsShooter marks the player currently rolling the dice.
	IsShooter bool
	// PointsMadeAsShooter counts points this player made while shooting.
	PointsMadeAsShooter int
	// PassLineLossStreak counts consecutive pass-line losses, used by
	// progressive strategies to size the next bet.
	PassLineLossStreak int
}

// NewState creates a player with the given identity and bankroll.
func NewState(name, strategyName string, bankroll int64, canShoot bool) (*State, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if bankroll < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeBankroll, bankroll)
	}
	return &State{
		Name:             name,
		StrategyName:     strategyName,
		CanShoot:         canShoot,
		StartingBankroll: bankroll,
		bankroll:         bankroll,
	}, nil
}

// Bankroll returns the current bankroll.
func (s *State) Bankroll() int64 {
	return s.bankroll
}

// TotalProfit returns the bankroll delta since the start of the run.
func (s *State) TotalProfit() int64 {
	return s.totalProfit
}

// ShooterProfit returns the profit accumulated while holding the dice.
func (s *State) ShooterProfit() int64 {
	return s.shooterProfit
}

// Debit removes amount from the bankroll.
//
// Returns ErrInvalidAmount for non-positive amounts and
// ErrInsufficientFunds when the amount exceeds the bankroll. The
// bankroll is unchanged on any error.
func (s *State) Debit(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}
	if amount > s.bankroll {
		return fmt.Errorf("%w: player %s, debit %d, bankroll %d",
			ErrInsufficientFunds, s.Name, amount, s.bankroll)
	}

	s.bankroll -= amount
	s.totalProfit = s.bankroll - s.StartingBankroll
	if s.IsShooter {
		s.shooterProfit -= amount
	}
	return nil
}

// Credit adds amount to the bankroll. A zero credit is a no-op.
func (s *State) Credit(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeCredit, amount)
	}

	s.bankroll += amount
	s.totalProfit = s.bankroll - s.StartingBankroll
	if s.IsShooter {
		s.shooterProfit += amount
	}
	return nil
}

// CanBet reports whether the player can cover the table minimum.
// A player who cannot is bankrupt for the rest of the run: they stop
// betting and leave the shooter rotation.
func (s *State) CanBet(tableMin int64) bool {
	if tableMin <= 0 {
		return s.bankroll > 0
	}
	return s.bankroll >= tableMin
}
