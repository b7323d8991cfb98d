// Package sim orchestrates craps simulation runs.
//
// A Simulation owns all mutable state for one run: the round engine,
// the bet ledger, the dice roller, and every player. The roll loop is
// strictly sequential, so a run is deterministic for a fixed seed.
// Independent runs share nothing and can execute in parallel.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crapsim/internal/config"
	"crapsim/internal/dice"
	"crapsim/internal/engine"
	"crapsim/internal/player"
	"crapsim/internal/strategy"
	"crapsim/internal/table"
)

// Errors for simulation construction and execution.
var (
	ErrNoEligibleShooter = errors.New("no eligible shooter available")
	ErrFrameCallback     = errors.New("frame callback failed")
)

// StopReason is the terminal outcome of a run.
type StopReason int

const (
	// StopNone means the run is still in progress.
	StopNone StopReason = iota
	// StopMaxPoints means the configured point target was reached.
	StopMaxPoints
	// StopAllBankrupt means every player is sidelined: unable to cover
	// the table minimum or past a configured bankroll limit.
	StopAllBankrupt
	// StopMaxRolls means the roll-count guard was reached.
	StopMaxRolls
)

// String returns a human-readable stop reason.
func (r StopReason) String() string {
	switch r {
	case StopMaxPoints:
		return "target_points_reached"
	case StopAllBankrupt:
		return "all_players_bankrupt"
	case StopMaxRolls:
		return "max_rolls_reached"
	default:
		return "running"
	}
}

// Stage identifies the point in a roll at which a frame is emitted.
type Stage string

// Frame stages, in the order they occur within a roll.
const (
	StageInitial      Stage = "initial"
	StageAfterBets    Stage = "after_bets"
	StageAfterRoll    Stage = "after_roll"
	StageAfterPayouts Stage = "after_payouts"
)

// Event records one completed roll. Events are append-only and
// immutable once recorded.
type Event struct {
	RollIndex        int
	ShooterIndex     int
	ShooterRollIndex int
	Result           engine.RollResult
	Resolved         []table.ResolvedBet
	// Bets is the ledger snapshot after payouts.
	Bets []table.Bet
	// ShooterPnL is the current shooter's profit while holding the dice.
	ShooterPnL int64
}

// Result is the final outcome of a run.
type Result struct {
	RunID           uuid.UUID
	Events          []Event
	CompletedPoints int
	Rolls           int
	StopReason      StopReason
}

// Frame is passed to the observer callback at each stage.
// Observers must treat the simulation as read-only; an error returned
// from the callback aborts the run.
type Frame struct {
	Stage Stage
	Sim   *Simulation
	// Event is the roll in progress. It is nil for StageInitial and
	// StageAfterBets, carries no resolutions at StageAfterRoll, and is
	// complete at StageAfterPayouts.
	Event *Event
}

// FrameFunc observes simulation progress for live rendering.
type FrameFunc func(Frame) error

// Option configures a Simulation.
type Option func(*Simulation)

// WithRoller injects a dice roller, overriding the configured seed.
func WithRoller(r *dice.Roller) Option {
	return func(s *Simulation) {
		s.roller = r
	}
}

// WithLogger attaches a logger for run lifecycle and per-roll debug
// output. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Simulation) {
		s.log = log
	}
}

// Simulation drives the roll-by-roll loop for one run.
type Simulation struct {
	cfg    *config.Config
	eng    *engine.Engine
	tbl    *table.Table
	roller *dice.Roller
	log    zerolog.Logger

	players    []*player.State
	strategies []strategy.Strategy

	rollIndex        int
	shooterIndex     int
	shooterRollIndex int
}

// New builds a simulation from configuration: an initialized engine,
// an empty table with the configured limits, one player per entry,
// and a roller seeded from config unless one is injected.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg: cfg,
		eng: engine.New(),
		tbl: table.New(cfg.Table.MinBet, cfg.Table.MaxBet),
		log: zerolog.Nop(),
	}

	for _, pc := range cfg.Players {
		st, err := player.NewState(pc.Name, pc.Strategy, pc.Bankroll, pc.CanShoot)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", pc.Name, err)
		}
		strat, err := strategy.New(pc.Strategy, pc.Unit)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", pc.Name, err)
		}
		s.players = append(s.players, st)
		s.strategies = append(s.strategies, strat)
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.roller == nil {
		seed := cfg.Simulation.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.roller = dice.NewRoller(seed)
	}

	first, err := s.firstShooter()
	if err != nil {
		return nil, err
	}
	s.shooterIndex = first
	s.players[first].IsShooter = true

	return s, nil
}

// Phase returns the current table phase.
func (s *Simulation) Phase() engine.Phase {
	return s.eng.Phase()
}

// Point returns the active point and whether one is set.
func (s *Simulation) Point() (int, bool) {
	return s.eng.Point()
}

// CompletedPoints returns the number of points made so far.
func (s *Simulation) CompletedPoints() int {
	return s.eng.CompletedPoints()
}

// RollIndex returns the index of the most recent roll (1-based).
func (s *Simulation) RollIndex() int {
	return s.rollIndex
}

// ShooterIndex returns the index of the current shooter.
func (s *Simulation) ShooterIndex() int {
	return s.shooterIndex
}

// ShooterRollIndex returns the roll count for the current shooter.
func (s *Simulation) ShooterRollIndex() int {
	return s.shooterRollIndex
}

// Players returns the player states. Callers must not mutate them.
func (s *Simulation) Players() []*player.State {
	return s.players
}

// Bets returns a snapshot of all outstanding bets.
func (s *Simulation) Bets() []table.Bet {
	return s.tbl.Bets()
}

// TableMin returns the configured table minimum bet.
func (s *Simulation) TableMin() int64 {
	return s.tbl.MinBet()
}

// Run executes the roll loop until a stop condition is met.
//
// maxRolls overrides the configured guard when positive. A non-nil
// onFrame is invoked synchronously at each stage; if it returns an
// error the run aborts immediately with that error wrapped in
// ErrFrameCallback.
func (s *Simulation) Run(maxRolls int, onFrame FrameFunc) (Result, error) {
	if maxRolls <= 0 {
		maxRolls = s.cfg.Simulation.MaxRolls
	}

	result := Result{RunID: uuid.New()}

	s.log.Info().
		Str("run_id", result.RunID.String()).
		Int("players", len(s.players)).
		Int("target_points", s.cfg.Simulation.TargetPoints).
		Int("max_rolls", maxRolls).
		Msg("simulation starting")

	if err := s.emit(onFrame, StageInitial, nil); err != nil {
		return result, err
	}

	// A run can be over before the first roll, e.g. when every
	// configured bankroll is already below the table minimum.
	if reason := s.checkStop(maxRolls); reason != StopNone {
		return s.finish(result, reason), nil
	}

	for {
		s.rollIndex++
		s.shooterRollIndex++

		s.placeBets()
		if err := s.emit(onFrame, StageAfterBets, nil); err != nil {
			return result, err
		}

		roll := s.roller.Roll()
		res, err := s.eng.Apply(roll)
		if err != nil {
			// The roller only produces valid rolls, so this is a
			// programming error worth failing loudly on.
			return result, fmt.Errorf("roll %d: %w", s.rollIndex, err)
		}

		event := Event{
			RollIndex:        s.rollIndex,
			ShooterIndex:     s.shooterIndex,
			ShooterRollIndex: s.shooterRollIndex,
			Result:           res,
		}
		if err := s.emit(onFrame, StageAfterRoll, &event); err != nil {
			return result, err
		}

		resolved := s.tbl.ResolveOnRollResult(res)
		if err := s.applyPayouts(resolved); err != nil {
			return result, fmt.Errorf("roll %d: %w", s.rollIndex, err)
		}

		if res.CompletedPoint {
			s.players[s.shooterIndex].PointsMadeAsShooter++
		}
		if res.CompletedPoint || res.SevenOut {
			s.advanceShooter()
		}

		event.Resolved = resolved
		event.Bets = s.tbl.Bets()
		event.ShooterPnL = s.players[s.shooterIndex].ShooterProfit()
		result.Events = append(result.Events, event)

		s.log.Debug().
			Int("roll", s.rollIndex).
			Str("dice", res.Roll.String()).
			Str("phase", res.PhaseAfter.String()).
			Int("point", res.PointAfter).
			Int("resolved", len(resolved)).
			Msg("roll complete")

		if err := s.emit(onFrame, StageAfterPayouts, &event); err != nil {
			return result, err
		}

		if reason := s.checkStop(maxRolls); reason != StopNone {
			return s.finish(result, reason), nil
		}
	}
}

// finish stamps the terminal fields onto the result.
func (s *Simulation) finish(result Result, reason StopReason) Result {
	result.CompletedPoints = s.eng.CompletedPoints()
	result.Rolls = s.rollIndex
	result.StopReason = reason

	s.log.Info().
		Str("run_id", result.RunID.String()).
		Str("stop_reason", reason.String()).
		Int("rolls", result.Rolls).
		Int("completed_points", result.CompletedPoints).
		Msg("simulation finished")
	return result
}

// emit invokes the frame callback, wrapping any error it returns.
func (s *Simulation) emit(onFrame FrameFunc, stage Stage, event *Event) error {
	if onFrame == nil {
		return nil
	}
	if err := onFrame(Frame{Stage: stage, Sim: s, Event: event}); err != nil {
		return fmt.Errorf("%w at %s: %w", ErrFrameCallback, stage, err)
	}
	return nil
}

// placeBets runs the betting phase: each player still in the betting
// decides through its strategy, and each decision is attempted
// individually. A failed placement skips that single bet, never the
// roll.
func (s *Simulation) placeBets() {
	point, _ := s.eng.Point()

	for i, p := range s.players {
		if s.sidelined(p) {
			continue
		}

		game := strategy.GameState{
			Phase:          s.eng.Phase(),
			Point:          point,
			HasPassLineBet: s.tbl.HasBet(i, table.PassLine),
			HasFieldBet:    s.tbl.HasBet(i, table.Field),
			TableMin:       s.tbl.MinBet(),
			TableMax:       s.tbl.MaxBet(),
		}
		view := strategy.PlayerView{
			Bankroll:           p.Bankroll(),
			StartingBankroll:   p.StartingBankroll,
			IsShooter:          p.IsShooter,
			PassLineLossStreak: p.PassLineLossStreak,
		}

		for _, decision := range s.strategies[i].Decide(game, view) {
			s.placeOne(i, p, decision)
		}
	}
}

// placeOne debits the player and places a single bet, refunding the
// debit if the table rejects the bet.
func (s *Simulation) placeOne(index int, p *player.State, decision strategy.BetDecision) {
	if err := p.Debit(decision.Amount); err != nil {
		s.log.Debug().Err(err).
			Str("player", p.Name).
			Str("kind", decision.Kind.String()).
			Int64("amount", decision.Amount).
			Msg("bet skipped")
		return
	}

	point, _ := s.eng.Point()
	bet := table.Bet{
		Player: index,
		Kind:   decision.Kind,
		Amount: decision.Amount,
		Point:  point,
	}
	if err := s.tbl.Place(bet); err != nil {
		// Recoverable placement failure: return the stake and move on.
		if cerr := p.Credit(decision.Amount); cerr != nil {
			panic(fmt.Sprintf("refund after failed placement: %v", cerr))
		}
		s.log.Debug().Err(err).
			Str("player", p.Name).
			Str("kind", decision.Kind.String()).
			Int64("amount", decision.Amount).
			Msg("bet rejected by table")
	}
}

// applyPayouts credits winners and updates pass-line loss streaks.
func (s *Simulation) applyPayouts(resolved []table.ResolvedBet) error {
	for _, r := range resolved {
		p := s.players[r.Bet.Player]
		if r.Payout > 0 {
			if err := p.Credit(r.Payout); err != nil {
				return err
			}
		}
		if r.Bet.Kind == table.PassLine {
			switch r.Outcome {
			case table.Win:
				p.PassLineLossStreak = 0
			case table.Lose:
				p.PassLineLossStreak++
			}
		}
	}
	return nil
}

// checkStop evaluates stop conditions in fixed priority order:
// point target, then all players bankrupt, then the roll guard.
func (s *Simulation) checkStop(maxRolls int) StopReason {
	if s.eng.CompletedPoints() >= s.cfg.Simulation.TargetPoints {
		return StopMaxPoints
	}
	if s.allBankrupt() {
		return StopAllBankrupt
	}
	if s.rollIndex >= maxRolls {
		return StopMaxRolls
	}
	return StopNone
}

// sidelined reports whether a player is out of the betting: short of
// the table minimum, at or below the configured bankroll floor, or
// past the walk-away target. The maximum is a strict upper bound: the
// player keeps betting until the bankroll moves above it.
func (s *Simulation) sidelined(p *player.State) bool {
	if !p.CanBet(s.tbl.MinBet()) {
		return true
	}
	limits := s.cfg.Simulation
	if p.Bankroll() <= limits.MinBankroll {
		return true
	}
	if limits.MaxBankroll > 0 && p.Bankroll() > limits.MaxBankroll {
		return true
	}
	return false
}

// allBankrupt reports whether every player is sidelined.
func (s *Simulation) allBankrupt() bool {
	for _, p := range s.players {
		if !s.sidelined(p) {
			return false
		}
	}
	return true
}

// firstShooter returns the index of the first eligible shooter,
// preferring players who are still in the betting. A table where
// everyone is already sidelined still gets a nominal shooter so the
// run can start and stop with an all-bankrupt result.
func (s *Simulation) firstShooter() (int, error) {
	fallback := -1
	for i, p := range s.players {
		if !p.CanShoot {
			continue
		}
		if !s.sidelined(p) {
			return i, nil
		}
		if fallback < 0 {
			fallback = i
		}
	}
	if fallback >= 0 {
		return fallback, nil
	}
	return 0, ErrNoEligibleShooter
}

// advanceShooter rotates the dice to the next eligible player,
// wrapping around the table. The current shooter keeps the dice when
// nobody else is eligible.
func (s *Simulation) advanceShooter() {
	current := s.shooterIndex
	s.players[current].IsShooter = false

	n := len(s.players)
	for offset := 1; offset <= n; offset++ {
		candidate := (current + offset) % n
		p := s.players[candidate]
		if p.CanShoot && !s.sidelined(p) {
			s.shooterIndex = candidate
			break
		}
	}
	s.players[s.shooterIndex].IsShooter = true
	s.shooterRollIndex = 0
}
