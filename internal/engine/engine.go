// Package engine implements the craps come-out/point state machine.
//
// The engine tracks the current table phase, the active point number,
// and the number of points made. It knows pass-line semantics only;
// individual bets are resolved by the table package against the
// RollResult it produces.
package engine

import (
	"errors"
	"fmt"

	"crapsim/internal/dice"
)

// Errors for engine contract violations.
var (
	ErrInvalidOutcome = errors.New("dice outcome out of range")
)

// Phase is the craps table phase.
type Phase int

const (
	// ComeOut is the phase before a point is established.
	ComeOut Phase = iota
	// PointOn is the phase while a point is active.
	PointOn
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case ComeOut:
		return "come-out"
	case PointOn:
		return "point-on"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PassLineOutcome is the pass-line result of a single roll.
type PassLineOutcome int

const (
	// PassLineNone means the roll did not resolve the pass line.
	PassLineNone PassLineOutcome = iota
	// PassLineWin is a natural or a made point.
	PassLineWin
	// PassLineLoss is craps or a seven-out.
	PassLineLoss
)

// String returns a human-readable outcome name.
func (o PassLineOutcome) String() string {
	switch o {
	case PassLineWin:
		return "win"
	case PassLineLoss:
		return "loss"
	default:
		return "none"
	}
}

// RollResult describes the effect of one roll on the point cycle.
type RollResult struct {
	Roll        dice.Roll
	PhaseBefore Phase
	PhaseAfter  Phase
	PointBefore int // 0 when no point was active
	PointAfter  int // 0 when no point is active

	// PointEstablished is the point set by this roll, 0 otherwise.
	PointEstablished int
	// CompletedPoint is true when the shooter made the point.
	CompletedPoint bool
	// SevenOut is true when a 7 ended an active point.
	SevenOut bool

	PassLine PassLineOutcome
}

// Engine is the craps point-cycle state machine.
// State is mutated only by Apply.
type Engine struct {
	phase           Phase
	point           int
	completedPoints int
}

// New creates an engine in the come-out phase with no point.
func New() *Engine {
	return &Engine{phase: ComeOut}
}

// Phase returns the current table phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Point returns the active point and whether one is set.
func (e *Engine) Point() (int, bool) {
	return e.point, e.point != 0
}

// CompletedPoints returns the number of points made so far.
// Seven-outs end the cycle but do not count as made points.
func (e *Engine) CompletedPoints() int {
	return e.completedPoints
}

// Apply advances the state machine with the given roll.
//
// A roll with die values outside 1..6 is a caller bug and returns
// ErrInvalidOutcome without touching engine state.
func (e *Engine) Apply(roll dice.Roll) (RollResult, error) {
	if !roll.Valid() {
		return RollResult{}, fmt.Errorf("%w: %d,%d", ErrInvalidOutcome, roll.D1, roll.D2)
	}

	res := RollResult{
		Roll:        roll,
		PhaseBefore: e.phase,
		PointBefore: e.point,
	}

	total := roll.Total()

	switch e.phase {
	case ComeOut:
		switch {
		case roll.IsNatural():
			res.PassLine = PassLineWin
		case roll.IsCraps():
			res.PassLine = PassLineLoss
		default:
			// 4, 5, 6, 8, 9, or 10 establishes the point.
			e.phase = PointOn
			e.point = total
			res.PointEstablished = total
		}
	case PointOn:
		switch {
		case total == e.point:
			res.PassLine = PassLineWin
			res.CompletedPoint = true
			e.completedPoints++
			e.reset()
		case total == 7:
			res.PassLine = PassLineLoss
			res.SevenOut = true
			e.reset()
		}
		// Any other total leaves phase and point unchanged.
	}

	res.PhaseAfter = e.phase
	res.PointAfter = e.point
	return res, nil
}

// reset returns the table to come-out with no active point.
func (e *Engine) reset() {
	e.phase = ComeOut
	e.point = 0
}
