package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tradeLedger/internal/domain"
)

// Metric is the value a breakdown ranks groups by.
type Metric string

const (
	MetricWinRate Metric = "winrate"
	MetricPnL     Metric = "pnl"
	MetricAvgPnL  Metric = "avgpnl"
	MetricCount   Metric = "count"
)

// Default breakdown sizes.
const (
	DefaultBreakdownLimit         = 8
	DefaultBreakdownLimitEnlarged = 15
)

// ParseMetric validates a metric selector. An empty selector means MetricPnL.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MetricPnL, nil
	case MetricWinRate, MetricPnL, MetricAvgPnL, MetricCount:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, s)
	}
}

// BreakdownEntry is one ranked group.
type BreakdownEntry struct {
	Name     string          `json:"name"`
	Value    float64         `json:"value"`
	Display  string          `json:"display"`
	Count    int             `json:"count"`
	Wins     int             `json:"wins"`
	Losses   int             `json:"losses"`
	TotalPnL decimal.Decimal `json:"total_pnl"`
}

// Breakdown is a ranked categorical view of a collection.
type Breakdown struct {
	Group   string           `json:"group"`
	Metric  Metric           `json:"metric"`
	Entries []BreakdownEntry `json:"entries"`
	AxisMax float64          `json:"axis_max"`
}

// BreakdownOptions selects the grouping, metric and size of a breakdown.
type BreakdownOptions struct {
	Group         GroupKey
	Metric        Metric
	Enlarged      bool
	Limit         int // 0 means DefaultBreakdownLimit
	EnlargedLimit int // 0 means DefaultBreakdownLimitEnlarged
}

// BuildBreakdown ranks the groups of a collection by the chosen metric,
// descending, and keeps the top Limit (EnlargedLimit when enlarged).
// Trades with no value for the grouping field, or the literal value "Unknown",
// are dropped rather than bucketed. Ungrouped keys are rejected.
func BuildBreakdown(trades []domain.Trade, opts BreakdownOptions) (Breakdown, error) {
	if opts.Group.IsTotal() {
		return Breakdown{}, fmt.Errorf("%w: breakdown needs a categorical field", ErrInvalidGroupKey)
	}
	metric, err := ParseMetric(string(opts.Metric))
	if err != nil {
		return Breakdown{}, err
	}

	groups := partition(byDate(trades), opts.Group, func(v string) (string, bool) {
		return v, v != "" && v != UnknownGroup
	})

	entries := make([]BreakdownEntry, 0, len(groups))
	for _, g := range groups {
		e := BreakdownEntry{Name: g.name, Count: len(g.trades)}
		for _, t := range g.trades {
			switch t.Outcome {
			case domain.OutcomeWin:
				e.Wins++
			case domain.OutcomeLoss:
				e.Losses++
			}
			e.TotalPnL = e.TotalPnL.Add(t.PnL)
		}
		e.Value, e.Display = metricValue(metric, e)
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultBreakdownLimit
	}
	if opts.Enlarged {
		limit = opts.EnlargedLimit
		if limit <= 0 {
			limit = DefaultBreakdownLimitEnlarged
		}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	peak := 0.0
	for _, e := range entries {
		peak = math.Max(peak, math.Abs(e.Value))
	}

	return Breakdown{
		Group:   opts.Group.String(),
		Metric:  metric,
		Entries: entries,
		AxisMax: BarAxisMax(peak),
	}, nil
}

func metricValue(m Metric, e BreakdownEntry) (float64, string) {
	switch m {
	case MetricWinRate:
		wr := percent(e.Wins, e.Wins+e.Losses)
		return float64(wr), strconv.Itoa(wr) + "%"
	case MetricAvgPnL:
		avg := e.TotalPnL.Div(decimal.NewFromInt(int64(e.Count))).Round(2)
		return avg.InexactFloat64(), FormatMoney(avg)
	case MetricCount:
		return float64(e.Count), strconv.Itoa(e.Count)
	default:
		return e.TotalPnL.InexactFloat64(), FormatMoney(e.TotalPnL)
	}
}
