package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradeLedger/internal/domain"
)

func outcomes(os ...domain.Outcome) []domain.Trade {
	trades := make([]domain.Trade, 0, len(os))
	for i, o := range os {
		pnl := 0.0
		switch o {
		case domain.OutcomeWin:
			pnl = 10
		case domain.OutcomeLoss:
			pnl = -10
		}
		day := []string{"2024-02-01", "2024-02-02", "2024-02-03", "2024-02-04", "2024-02-05",
			"2024-02-06", "2024-02-07", "2024-02-08", "2024-02-09", "2024-02-10"}[i]
		trades = append(trades, mk(day, o, pnl))
	}
	return trades
}

func TestAnalyzeStreaks(t *testing.T) {
	const (
		W  = domain.OutcomeWin
		L  = domain.OutcomeLoss
		BE = domain.OutcomeBreakeven
	)

	tests := []struct {
		name          string
		trades        []domain.Trade
		wantMaxWins   int
		wantMaxLosses int
		wantCurrent   int
	}{
		{"empty", nil, 0, 0, 0},
		{"four losses", outcomes(L, L, L, L), 0, 4, -4},
		{"win loss win", outcomes(W, L, W), 1, 1, 1},
		{"breakeven inside a win run", outcomes(W, BE, W, L), 2, 1, -1},
		{"breakeven tail counts positive", outcomes(W, W, BE), 2, 0, 1},
		{"two breakevens after a win", outcomes(W, BE, BE), 1, 0, 2},
		{"loss after breakevens", outcomes(BE, BE, L), 0, 1, -1},
		{"longest run wins", outcomes(W, W, W, L, L, W, W), 3, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := AnalyzeStreaks(tt.trades)
			assert.Equal(t, tt.wantMaxWins, st.MaxWins)
			assert.Equal(t, tt.wantMaxLosses, st.MaxLosses)
			assert.Equal(t, tt.wantCurrent, st.CurrentStreak)
			assert.Equal(t, st.Current.Signed(), st.CurrentStreak)
		})
	}
}

func TestAnalyzeStreaks_SortsByDate(t *testing.T) {
	trades := []domain.Trade{
		mk("2024-03-03", domain.OutcomeLoss, -5),
		mk("2024-03-01", domain.OutcomeWin, 5),
		mk("2024-03-02", domain.OutcomeWin, 5),
	}
	st := AnalyzeStreaks(trades)
	assert.Equal(t, 2, st.MaxWins)
	assert.Equal(t, StreakRun{Outcome: domain.OutcomeLoss, Length: 1}, st.Current)
	assert.Equal(t, -1, st.CurrentStreak)
}

func TestStreakRun_Signed(t *testing.T) {
	assert.Equal(t, 3, StreakRun{Outcome: domain.OutcomeWin, Length: 3}.Signed())
	assert.Equal(t, -3, StreakRun{Outcome: domain.OutcomeLoss, Length: 3}.Signed())
	assert.Equal(t, 2, StreakRun{Outcome: domain.OutcomeBreakeven, Length: 2}.Signed())
	assert.Equal(t, 0, StreakRun{}.Signed())
}

func TestConsistencyScore(t *testing.T) {
	trades := []domain.Trade{
		mk("2024-03-01", domain.OutcomeWin, 50),
		mk("2024-03-01", domain.OutcomeLoss, -80),
		mk("2024-03-02", domain.OutcomeWin, 10),
		mk("2024-03-03", domain.OutcomeBreakeven, 0),
	}
	assert.Equal(t, 33, ConsistencyScore(trades))
	assert.Equal(t, 0, ConsistencyScore(nil))
}
