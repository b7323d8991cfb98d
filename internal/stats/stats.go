// Package stats aggregates simulation results into summaries.
package stats

import (
	"crapsim/internal/engine"
	"crapsim/internal/player"
	"crapsim/internal/sim"
)

// DiceTotals holds counts of dice totals split by phase.
// Keys run 2 through 12.
type DiceTotals struct {
	TotalRolls int
	ByTotal    map[int]int
	ComeOut    map[int]int
	PointOn    map[int]int
}

// PlayerSummary is the final per-player summary for a run.
type PlayerSummary struct {
	Name                string
	StrategyName        string
	FinalBankroll       int64
	TotalProfit         int64
	ShooterProfit       int64
	PointsMadeAsShooter int
	BankrollVariance    float64
	MaxDrawdown         int64
}

// Summary is the high-level summary of a run.
type Summary struct {
	StopReason      sim.StopReason
	CompletedPoints int
	Rolls           int
	Dice            DiceTotals
	Players         []PlayerSummary
}

// ComputeDiceTotals counts dice totals across events, split by the
// phase the roll was thrown in.
func ComputeDiceTotals(events []sim.Event) DiceTotals {
	totals := DiceTotals{
		ByTotal: make(map[int]int, 11),
		ComeOut: make(map[int]int, 11),
		PointOn: make(map[int]int, 11),
	}
	for t := 2; t <= 12; t++ {
		totals.ByTotal[t] = 0
		totals.ComeOut[t] = 0
		totals.PointOn[t] = 0
	}

	for _, event := range events {
		total := event.Result.Roll.Total()
		if total < 2 || total > 12 {
			continue
		}

		totals.TotalRolls++
		totals.ByTotal[total]++

		switch event.Result.PhaseBefore {
		case engine.ComeOut:
			totals.ComeOut[total]++
		case engine.PointOn:
			totals.PointOn[total]++
		}
	}
	return totals
}

// BankrollSeries reconstructs a player's bankroll after each roll from
// the event log, starting from the given bankroll. Debits at placement
// and credits at payout are both reflected in the per-roll net.
func BankrollSeries(events []sim.Event, playerIndex int, starting int64) []int64 {
	series := make([]int64, 0, len(events))
	balance := starting
	outstanding := int64(0)

	for _, event := range events {
		var placed int64
		for _, bet := range event.Bets {
			if bet.Player == playerIndex {
				placed += bet.Amount
			}
		}
		for _, r := range event.Resolved {
			if r.Bet.Player == playerIndex {
				// The settled stake left the outstanding pool.
				outstanding -= r.Bet.Amount
				balance += r.Payout
			}
		}
		// Whatever is newly on the table was debited this roll.
		delta := placed - outstanding
		if delta > 0 {
			balance -= delta
		}
		outstanding = placed
		series = append(series, balance)
	}
	return series
}

// Variance returns the population variance of the bankroll series.
func Variance(series []int64) float64 {
	if len(series) == 0 {
		return 0
	}

	var sum float64
	for _, v := range series {
		sum += float64(v)
	}
	mean := sum / float64(len(series))

	var sq float64
	for _, v := range series {
		d := float64(v) - mean
		sq += d * d
	}
	return sq / float64(len(series))
}

// MaxDrawdown returns the largest peak-to-trough decline in the
// bankroll series, starting the peak at the given starting bankroll.
func MaxDrawdown(series []int64, starting int64) int64 {
	peak := starting
	var worst int64
	for _, v := range series {
		if v > peak {
			peak = v
		}
		if dd := peak - v; dd > worst {
			worst = dd
		}
	}
	return worst
}

// SummarizePlayers builds per-player summaries from final state and
// the event log.
func SummarizePlayers(players []*player.State, events []sim.Event) []PlayerSummary {
	summaries := make([]PlayerSummary, 0, len(players))
	for i, p := range players {
		series := BankrollSeries(events, i, p.StartingBankroll)
		summaries = append(summaries, PlayerSummary{
			Name:                p.Name,
			StrategyName:        p.StrategyName,
			FinalBankroll:       p.Bankroll(),
			TotalProfit:         p.TotalProfit(),
			ShooterProfit:       p.ShooterProfit(),
			PointsMadeAsShooter: p.PointsMadeAsShooter,
			BankrollVariance:    Variance(series),
			MaxDrawdown:         MaxDrawdown(series, p.StartingBankroll),
		})
	}
	return summaries
}

// Summarize builds the full run summary.
func Summarize(players []*player.State, result sim.Result) Summary {
	return Summary{
		StopReason:      result.StopReason,
		CompletedPoints: result.CompletedPoints,
		Rolls:           result.Rolls,
		Dice:            ComputeDiceTotals(result.Events),
		Players:         SummarizePlayers(players, result.Events),
	}
}
