// Package table implements the bet ledger for the craps simulator.
//
// The table holds every outstanding bet from placement until a roll
// resolves it. Resolution is driven by the engine's RollResult and is
// deterministic: bets settle in kind-priority order, then placement
// order, so a fixed seed always produces the same payout sequence.
package table

import (
	"errors"
	"fmt"
	"sort"

	"crapsim/internal/engine"
)

// Errors for bet placement.
var (
	ErrInvalidAmount = errors.New("bet amount must be positive")
	ErrBelowMinimum  = errors.New("bet is below the table minimum")
	ErrAboveMaximum  = errors.New("bet exceeds the table maximum")
	ErrDuplicateBet  = errors.New("player already has an active bet of this kind")
)

// BetKind identifies a supported wager type.
type BetKind int

const (
	// PassLine is the primary wager, resolved by come-out/point rules.
	PassLine BetKind = iota
	// Field is a one-roll wager on totals 2, 3, 4, 9, 10, 11, or 12.
	Field
)

// String returns the configuration name of the bet kind.
func (k BetKind) String() string {
	switch k {
	case PassLine:
		return "pass_line"
	case Field:
		return "field"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// priority orders bet kinds for resolution. Lower settles first.
func (k BetKind) priority() int {
	return int(k)
}

// Outcome is the settlement result of a bet.
type Outcome int

const (
	// Win pays the bet per its payout table.
	Win Outcome = iota
	// Lose forfeits the stake.
	Lose
	// Push returns the stake with no profit.
	Push
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Push:
		return "push"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Bet is an outstanding wager. Immutable once placed.
type Bet struct {
	Player int
	Kind   BetKind
	Amount int64
	// Point is the active point at placement, 0 during come-out.
	Point int

	// seq is the placement sequence number, used to order resolution
	// within a kind.
	seq int
}

// ResolvedBet reports the settlement of a single bet.
// Payout includes the returned stake, so an even-money win on 25
// pays 50 for a profit of 25.
type ResolvedBet struct {
	Bet     Bet
	Outcome Outcome
	Payout  int64
	Profit  int64
}

// Table is the bet ledger. It enforces table limits at placement and
// settles bets against engine roll results. A zero MaxBet means the
// table has no upper limit.
type Table struct {
	minBet  int64
	maxBet  int64
	bets    []Bet
	nextSeq int
}

// New creates an empty table with the given limits.
func New(minBet, maxBet int64) *Table {
	return &Table{minBet: minBet, maxBet: maxBet}
}

// MinBet returns the table minimum.
func (t *Table) MinBet() int64 {
	return t.minBet
}

// MaxBet returns the table maximum, 0 when unlimited.
func (t *Table) MaxBet() int64 {
	return t.maxBet
}

// Place adds a bet to the ledger.
//
// Returns ErrInvalidAmount for non-positive amounts, ErrBelowMinimum
// or ErrAboveMaximum for limit violations, and ErrDuplicateBet when
// the player already has an active bet of the same kind. The ledger
// is unchanged on any error.
func (t *Table) Place(bet Bet) error {
	if bet.Amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, bet.Amount)
	}
	if bet.Amount < t.minBet {
		return fmt.Errorf("%w: %d < %d", ErrBelowMinimum, bet.Amount, t.minBet)
	}
	if t.maxBet > 0 && bet.Amount > t.maxBet {
		return fmt.Errorf("%w: %d > %d", ErrAboveMaximum, bet.Amount, t.maxBet)
	}
	if t.HasBet(bet.Player, bet.Kind) {
		return fmt.Errorf("%w: player %d, %s", ErrDuplicateBet, bet.Player, bet.Kind)
	}

	bet.seq = t.nextSeq
	t.nextSeq++
	t.bets = append(t.bets, bet)
	return nil
}

// HasBet reports whether the player has an active bet of the kind.
func (t *Table) HasBet(player int, kind BetKind) bool {
	for _, b := range t.bets {
		if b.Player == player && b.Kind == kind {
			return true
		}
	}
	return false
}

// PlayerTotal returns the sum a player currently has on the table.
func (t *Table) PlayerTotal(player int) int64 {
	var total int64
	for _, b := range t.bets {
		if b.Player == player {
			total += b.Amount
		}
	}
	return total
}

// Bets returns a snapshot of all outstanding bets in placement order.
func (t *Table) Bets() []Bet {
	out := make([]Bet, len(t.bets))
	copy(out, t.bets)
	return out
}

// ResolveOnRollResult settles every bet whose kind is sensitive to the
// given roll result and removes settled bets from the ledger. Bets
// whose resolution condition is not met stay outstanding untouched.
//
// Each call reports each settled bet exactly once; resolving the same
// result again against the emptied ledger returns nil.
func (t *Table) ResolveOnRollResult(res engine.RollResult) []ResolvedBet {
	var resolved []ResolvedBet
	var remaining []Bet

	for _, bet := range t.bets {
		out, settled := settle(bet, res)
		if settled {
			resolved = append(resolved, out)
		} else {
			remaining = append(remaining, bet)
		}
	}

	t.bets = remaining

	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i].Bet, resolved[j].Bet
		if a.Kind.priority() != b.Kind.priority() {
			return a.Kind.priority() < b.Kind.priority()
		}
		return a.seq < b.seq
	})
	return resolved
}

// settle resolves a single bet against a roll result. The second
// return value is false when the bet remains outstanding.
func settle(bet Bet, res engine.RollResult) (ResolvedBet, bool) {
	switch bet.Kind {
	case PassLine:
		return settlePassLine(bet, res)
	case Field:
		return settleField(bet, res)
	default:
		return ResolvedBet{}, false
	}
}

// settlePassLine applies pass-line rules: win on a natural or a made
// point, lose on craps or a seven-out, otherwise carry to the next
// roll. Wins pay even money.
func settlePassLine(bet Bet, res engine.RollResult) (ResolvedBet, bool) {
	switch res.PassLine {
	case engine.PassLineWin:
		return ResolvedBet{
			Bet:     bet,
			Outcome: Win,
			Payout:  bet.Amount * 2,
			Profit:  bet.Amount,
		}, true
	case engine.PassLineLoss:
		return ResolvedBet{
			Bet:     bet,
			Outcome: Lose,
			Payout:  0,
			Profit:  -bet.Amount,
		}, true
	default:
		return ResolvedBet{}, false
	}
}

// settleField applies field rules, which resolve on every roll:
// 2 and 12 pay double, 3, 4, 9, 10, and 11 pay even money, and
// 5, 6, 7, and 8 lose.
func settleField(bet Bet, res engine.RollResult) (ResolvedBet, bool) {
	switch res.Roll.Total() {
	case 2, 12:
		return ResolvedBet{
			Bet:     bet,
			Outcome: Win,
			Payout:  bet.Amount * 3,
			Profit:  bet.Amount * 2,
		}, true
	case 3, 4, 9, 10, 11:
		return ResolvedBet{
			Bet:     bet,
			Outcome: Win,
			Payout:  bet.Amount * 2,
			Profit:  bet.Amount,
		}, true
	default:
		return ResolvedBet{
			Bet:     bet,
			Outcome: Lose,
			Payout:  0,
			Profit:  -bet.Amount,
		}, true
	}
}
