package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crapsim/internal/config"
	"crapsim/internal/dice"
	"crapsim/internal/sim"
	"crapsim/internal/strategy"
)

// TestVariance tests the population variance computation.
func TestVariance(t *testing.T) {
	assert.Equal(t, 0.0, Variance(nil))
	assert.Equal(t, 0.0, Variance([]int64{500, 500, 500}), "constant series has no variance")

	// Series 2, 4, 4, 4, 5, 5, 7, 9: mean 5, variance 4.
	assert.InDelta(t, 4.0, Variance([]int64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

// TestMaxDrawdown tests peak-to-trough decline computation.
func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		series   []int64
		starting int64
		want     int64
	}{
		{"empty", nil, 1000, 0},
		{"constant", []int64{1000, 1000}, 1000, 0},
		{"monotonic rise", []int64{1100, 1200, 1300}, 1000, 0},
		{"simple decline", []int64{900, 800}, 1000, 200},
		{"decline from new peak", []int64{1200, 900, 1100}, 1000, 300},
		{"recovers then drops deeper", []int64{800, 1000, 500}, 1000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxDrawdown(tt.series, tt.starting))
		})
	}
}

// runForStats produces a deterministic finished run for summaries.
func runForStats(t *testing.T) (*sim.Simulation, sim.Result) {
	t.Helper()
	cfg := &config.Config{
		Table:      config.TableConfig{MinBet: 5, MaxBet: 5000},
		Simulation: config.SimulationConfig{TargetPoints: 1000000, MaxRolls: 150},
		Players: []config.PlayerConfig{
			{Name: "A", Strategy: strategy.NameFlatPass, Unit: 25, Bankroll: 1000, CanShoot: true},
			{Name: "B", Strategy: strategy.NameNoBet, Bankroll: 1000, CanShoot: true},
		},
	}

	s, err := sim.New(cfg, sim.WithRoller(dice.NewRoller(77)))
	require.NoError(t, err)

	result, err := s.Run(0, nil)
	require.NoError(t, err)
	return s, result
}

// TestComputeDiceTotals tests histogram aggregation by phase.
func TestComputeDiceTotals(t *testing.T) {
	_, result := runForStats(t)
	totals := ComputeDiceTotals(result.Events)

	assert.Equal(t, len(result.Events), totals.TotalRolls)

	sum, comeOut, pointOn := 0, 0, 0
	for tot := 2; tot <= 12; tot++ {
		sum += totals.ByTotal[tot]
		comeOut += totals.ComeOut[tot]
		pointOn += totals.PointOn[tot]
		assert.Equal(t, totals.ComeOut[tot]+totals.PointOn[tot], totals.ByTotal[tot],
			"phase splits must add up for total %d", tot)
	}
	assert.Equal(t, totals.TotalRolls, sum)
	assert.Equal(t, totals.TotalRolls, comeOut+pointOn)
}

// TestBankrollSeries tests that the reconstructed series ends at the
// player's actual final bankroll.
func TestBankrollSeries(t *testing.T) {
	s, result := runForStats(t)

	for i, p := range s.Players() {
		series := BankrollSeries(result.Events, i, p.StartingBankroll)
		require.Len(t, series, len(result.Events))

		assert.Equal(t, p.Bankroll(), series[len(series)-1],
			"series for %s must end at the final bankroll", p.Name)

		for _, v := range series {
			assert.GreaterOrEqual(t, v, int64(0))
		}
	}
}

// TestSummarize tests the assembled run summary.
func TestSummarize(t *testing.T) {
	s, result := runForStats(t)
	summary := Summarize(s.Players(), result)

	assert.Equal(t, result.StopReason, summary.StopReason)
	assert.Equal(t, result.CompletedPoints, summary.CompletedPoints)
	assert.Equal(t, result.Rolls, summary.Rolls)
	require.Len(t, summary.Players, 2)

	a, b := summary.Players[0], summary.Players[1]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, a.FinalBankroll-1000, a.TotalProfit)

	// The no-bet player never wagers: flat bankroll, zero everything.
	assert.Equal(t, "B", b.Name)
	assert.Equal(t, int64(1000), b.FinalBankroll)
	assert.Equal(t, int64(0), b.TotalProfit)
	assert.Equal(t, 0.0, b.BankrollVariance)
	assert.Equal(t, int64(0), b.MaxDrawdown)
}
