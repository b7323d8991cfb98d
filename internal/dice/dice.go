// Package dice provides the two-die roller used by the craps simulator.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
)

// Errors for dice values.
var (
	ErrInvalidDie = errors.New("die value must be between 1 and 6")
)

// Roll is an immutable two-die outcome.
type Roll struct {
	D1 int
	D2 int
}

// New creates a Roll, validating both die values.
func New(d1, d2 int) (Roll, error) {
	if d1 < 1 || d1 > 6 {
		return Roll{}, fmt.Errorf("%w: d1=%d", ErrInvalidDie, d1)
	}
	if d2 < 1 || d2 > 6 {
		return Roll{}, fmt.Errorf("%w: d2=%d", ErrInvalidDie, d2)
	}
	return Roll{D1: d1, D2: d2}, nil
}

// MustNew creates a Roll and panics on invalid die values.
// Intended for tests and literals.
func MustNew(d1, d2 int) Roll {
	r, err := New(d1, d2)
	if err != nil {
		panic(err)
	}
	return r
}

// Total returns the sum of both dice.
func (r Roll) Total() int {
	return r.D1 + r.D2
}

// IsNatural reports whether the roll totals 7 or 11.
func (r Roll) IsNatural() bool {
	t := r.Total()
	return t == 7 || t == 11
}

// IsCraps reports whether the roll totals 2, 3, or 12.
func (r Roll) IsCraps() bool {
	t := r.Total()
	return t == 2 || t == 3 || t == 12
}

// Valid reports whether both die values are in range.
func (r Roll) Valid() bool {
	return r.D1 >= 1 && r.D1 <= 6 && r.D2 >= 1 && r.D2 <= 6
}

// String renders the roll as "d1+d2=total".
func (r Roll) String() string {
	return fmt.Sprintf("%d+%d=%d", r.D1, r.D2, r.Total())
}

// Roller produces random rolls from a seeded source.
// Each Roller owns its own RNG, so independent simulations
// can run in parallel without sharing state.
type Roller struct {
	rng *rand.Rand
}

// NewRoller creates a roller seeded with the given value.
// The same seed always produces the same roll sequence.
func NewRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Roll generates a uniformly random two-die outcome.
func (r *Roller) Roll() Roll {
	return Roll{
		D1: r.rng.Intn(6) + 1,
		D2: r.rng.Intn(6) + 1,
	}
}
