package analytics

import (
	"github.com/shopspring/decimal"

	"tradeLedger/internal/domain"
)

// Limits bounds the size of grouped views.
type Limits struct {
	MaxEquityGroups        int
	BreakdownLimit         int
	BreakdownLimitEnlarged int
}

// DefaultLimits returns the stock chart limits.
func DefaultLimits() Limits {
	return Limits{
		MaxEquityGroups:        DefaultMaxEquityGroups,
		BreakdownLimit:         DefaultBreakdownLimit,
		BreakdownLimitEnlarged: DefaultBreakdownLimitEnlarged,
	}
}

// ReportOptions carries the viewer's selectors for a full report.
type ReportOptions struct {
	Group                 GroupKey
	Enlarged              bool
	Hidden                []string
	IncludeNonTradingDays bool
	Limits                Limits
}

// Report bundles every derived view of a collection.
type Report struct {
	Summary     Summary      `json:"summary"`
	Streaks     Streaks      `json:"streaks"`
	Consistency int          `json:"consistency_score"`
	Daily       []DayPnL     `json:"daily"`
	BestDay     *DayPnL      `json:"best_day"`
	WorstDay    *DayPnL      `json:"worst_day"`
	Weekdays    []WeekdayPnL `json:"weekdays"`
	Monthly     []MonthPnL   `json:"monthly"`
	Equity      EquityCurve  `json:"equity"`
}

// BuildReport recomputes every view from the collection.
func BuildReport(trades []domain.Trade, startingBalance decimal.Decimal, opts ReportOptions) Report {
	r := Report{
		Summary:     Summarize(trades, startingBalance),
		Streaks:     AnalyzeStreaks(trades),
		Consistency: ConsistencyScore(trades),
		Daily:       DailyPnL(trades, opts.IncludeNonTradingDays),
		Weekdays:    WeekdayBreakdown(trades),
		Monthly:     MonthlyPnL(trades),
		Equity: BuildEquityCurve(trades, startingBalance, EquityOptions{
			Group:     opts.Group,
			Enlarged:  opts.Enlarged,
			Hidden:    opts.Hidden,
			MaxGroups: opts.Limits.MaxEquityGroups,
		}),
	}
	if best, worst, ok := BestWorstDay(trades); ok {
		r.BestDay, r.WorstDay = &best, &worst
	}
	return r
}
