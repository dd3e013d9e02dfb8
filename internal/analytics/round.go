package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"tradeLedger/internal/domain"
)

// roundHalfUp rounds to the nearest integer with halves going towards +Inf,
// so -2.5 rounds to -2 and 2.5 to 3.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// percent returns round(part/whole*100), or 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(roundHalfUp(float64(part) / float64(whole) * 100))
}

// divRound returns round(num/den) for a positive count, or 0 when den is 0.
func divRound(num decimal.Decimal, den int) int64 {
	if den == 0 {
		return 0
	}
	return int64(roundHalfUp(num.Div(decimal.NewFromInt(int64(den))).InexactFloat64()))
}

// byDate returns a copy of trades sorted ascending by date. Same-day trades keep
// their original relative order. The input is never reordered.
func byDate(trades []domain.Trade) []domain.Trade {
	sorted := make([]domain.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
