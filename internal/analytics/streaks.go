package analytics

import (
	"github.com/shopspring/decimal"

	"tradeLedger/internal/domain"
)

// StreakRun is a run of consecutive trades sharing an outcome.
type StreakRun struct {
	Outcome domain.Outcome `json:"outcome,omitempty"`
	Length  int            `json:"length"`
}

// Signed returns the run length, negative only for a losing run.
func (r StreakRun) Signed() int {
	if r.Outcome == domain.OutcomeLoss {
		return -r.Length
	}
	return r.Length
}

// Streaks describes consecutive win/loss runs in date order.
type Streaks struct {
	MaxWins       int       `json:"max_wins"`
	MaxLosses     int       `json:"max_losses"`
	Current       StreakRun `json:"current"`
	CurrentStreak int       `json:"current_streak"` // Current.Signed()
}

// AnalyzeStreaks sorts trades by date and measures win/loss runs.
//
// Breakeven trades are skipped by the max-run walk: they neither extend nor
// break a run, so W, BE, W counts as a two-win run. The current streak is
// counted backwards from the last trade over trades with exactly its outcome,
// so a breakeven tail of N trades reports +N.
func AnalyzeStreaks(trades []domain.Trade) Streaks {
	sorted := byDate(trades)
	var st Streaks

	var last domain.Outcome
	run := 0
	for _, t := range sorted {
		if t.Outcome == domain.OutcomeBreakeven {
			continue
		}
		if t.Outcome == last {
			run++
		} else {
			run = 1
			last = t.Outcome
		}
		switch t.Outcome {
		case domain.OutcomeWin:
			if run > st.MaxWins {
				st.MaxWins = run
			}
		case domain.OutcomeLoss:
			if run > st.MaxLosses {
				st.MaxLosses = run
			}
		}
	}

	if n := len(sorted); n > 0 {
		tail := sorted[n-1].Outcome
		count := 0
		for i := n - 1; i >= 0 && sorted[i].Outcome == tail; i-- {
			count++
		}
		st.Current = StreakRun{Outcome: tail, Length: count}
	}
	st.CurrentStreak = st.Current.Signed()
	return st
}

// ConsistencyScore is the percentage of trading days whose summed pnl is
// positive, or 0 when there are no trading days.
func ConsistencyScore(trades []domain.Trade) int {
	days := make(map[string]decimal.Decimal)
	for _, t := range trades {
		key := domain.FormatDate(t.Date)
		days[key] = days[key].Add(t.PnL)
	}
	positive := 0
	for _, pnl := range days {
		if pnl.IsPositive() {
			positive++
		}
	}
	return percent(positive, len(days))
}
