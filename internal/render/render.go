// Package render turns simulation state into terminal output.
//
// The renderer is deliberately dumb: it formats snapshots handed to it
// by the frame callback and never touches simulation state.
package render

import (
	"fmt"
	"io"
	"strings"

	"crapsim/internal/sim"
	"crapsim/internal/stats"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[2J\033[H"

// Renderer writes live frames and final summaries to a terminal.
type Renderer struct {
	out   io.Writer
	clear bool
}

// New creates a renderer. When clear is true each frame replaces the
// previous one instead of scrolling.
func New(out io.Writer, clear bool) *Renderer {
	return &Renderer{out: out, clear: clear}
}

// Frame renders one simulation frame. It implements sim.FrameFunc and
// draws at every stage, so a live view shows bets going down, the roll
// landing, and the payouts settling as distinct frames.
func (r *Renderer) Frame(f sim.Frame) error {
	if r.clear {
		if _, err := fmt.Fprint(r.out, clearScreen); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.out, FormatFrame(f))
	return err
}

// Summary renders the end-of-run summary.
func (r *Renderer) Summary(s stats.Summary) error {
	_, err := fmt.Fprintln(r.out, FormatSummary(s))
	return err
}

// FormatFrame renders a frame as a human-readable block.
func FormatFrame(f sim.Frame) string {
	var b strings.Builder

	s := f.Sim
	point, hasPoint := s.Point()
	pointStr := "-"
	if hasPoint {
		pointStr = fmt.Sprintf("%d", point)
	}

	fmt.Fprintf(&b, "roll %-5d shooter %-2d phase %-9s point %s\n",
		s.RollIndex(), s.ShooterIndex(), s.Phase(), pointStr)

	if f.Event != nil {
		res := f.Event.Result
		fmt.Fprintf(&b, "dice %s", res.Roll)
		switch {
		case res.PointEstablished != 0:
			fmt.Fprintf(&b, "  point established: %d", res.PointEstablished)
		case res.CompletedPoint:
			fmt.Fprintf(&b, "  point made: %d", res.PointBefore)
		case res.SevenOut:
			fmt.Fprint(&b, "  seven out")
		}
		b.WriteByte('\n')

		for _, rb := range f.Event.Resolved {
			name := playerName(f, rb.Bet.Player)
			fmt.Fprintf(&b, "  %-12s %-9s %-5s stake %-6d payout %d\n",
				name, rb.Bet.Kind, rb.Outcome, rb.Bet.Amount, rb.Payout)
		}
	}

	b.WriteString(playerTable(f))
	return strings.TrimRight(b.String(), "\n")
}

// playerTable renders one row per player.
func playerTable(f sim.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %10s %8s %8s %8s  %s\n",
		"player", "bankroll", "profit", "shooter", "on-table", "strategy")

	for i, p := range f.Sim.Players() {
		onTable := int64(0)
		for _, bet := range f.Sim.Bets() {
			if bet.Player == i {
				onTable += bet.Amount
			}
		}
		marker := " "
		if p.IsShooter {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%-11s %10d %+8d %+8d %8d  %s\n",
			marker, p.Name, p.Bankroll(), p.TotalProfit(), p.ShooterProfit(), onTable, p.StrategyName)
	}
	return b.String()
}

// playerName resolves a player index to a display name.
func playerName(f sim.Frame, index int) string {
	players := f.Sim.Players()
	if index >= 0 && index < len(players) {
		return players[index].Name
	}
	return fmt.Sprintf("player %d", index)
}

// FormatSummary renders the end-of-run summary: stop reason, dice
// histograms split by phase, and per-player results.
func FormatSummary(s stats.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "stop: %s  rolls: %d  points: %d\n\n",
		s.StopReason, s.Rolls, s.CompletedPoints)

	b.WriteString(histogram("totals", s.Dice.ByTotal, s.Dice.TotalRolls))
	b.WriteString(histogram("come-out", s.Dice.ComeOut, s.Dice.TotalRolls))
	b.WriteString(histogram("point-on", s.Dice.PointOn, s.Dice.TotalRolls))
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%-12s %10s %8s %8s %7s %10s %9s  %s\n",
		"player", "bankroll", "profit", "shooter", "points", "variance", "drawdown", "strategy")
	for _, p := range s.Players {
		fmt.Fprintf(&b, "%-12s %10d %+8d %+8d %7d %10.1f %9d  %s\n",
			p.Name, p.FinalBankroll, p.TotalProfit, p.ShooterProfit,
			p.PointsMadeAsShooter, p.BankrollVariance, p.MaxDrawdown, p.StrategyName)
	}
	return strings.TrimRight(b.String(), "\n")
}

// histogram renders counts for totals 2..12 as a single labeled line.
func histogram(label string, counts map[int]int, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s", label)
	for t := 2; t <= 12; t++ {
		fmt.Fprintf(&b, " %d=%d", t, counts[t])
	}
	if total > 0 {
		fmt.Fprintf(&b, "  (n=%d)", total)
	}
	b.WriteByte('\n')
	return b.String()
}
