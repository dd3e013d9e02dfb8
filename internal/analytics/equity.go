package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"tradeLedger/internal/domain"
)

// DefaultMaxEquityGroups caps how many grouped series are drawn.
const DefaultMaxEquityGroups = 9

// Palette assigns series colors by group discovery order, cycling when needed.
var Palette = []string{
	"#22c55e", "#3b82f6", "#f59e0b", "#ef4444", "#8b5cf6",
	"#06b6d4", "#ec4899", "#84cc16", "#f97316",
}

// EquityPoint is one point of a balance series. Index 0 is the origin and
// carries no trade.
type EquityPoint struct {
	Index   int             `json:"index"`
	Date    string          `json:"date,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	PnL     decimal.Decimal `json:"pnl"`
	Symbol  string          `json:"symbol,omitempty"`
}

// EquitySeries is one balance line.
type EquitySeries struct {
	Name    string        `json:"name"`
	Color   string        `json:"color"`
	Visible bool          `json:"visible"`
	Points  []EquityPoint `json:"points"`
}

// Final returns the balance of the last point.
func (s EquitySeries) Final() decimal.Decimal {
	if len(s.Points) == 0 {
		return decimal.Zero
	}
	return s.Points[len(s.Points)-1].Balance
}

// EquityCurve is the chart-ready equity data of a collection.
type EquityCurve struct {
	Group string `json:"group"`
	// Insufficient is set when there are fewer than two trades; no series are built.
	Insufficient bool            `json:"insufficient"`
	Series       []EquitySeries  `json:"series"`
	Current      decimal.Decimal `json:"current"`
	Axis         AxisRange       `json:"axis"`
}

// EquityOptions selects how the curve is built.
type EquityOptions struct {
	Group     GroupKey
	Enlarged  bool     // use the enlarged axis label count
	Hidden    []string // grouped series the viewer has switched off
	MaxGroups int      // 0 means DefaultMaxEquityGroups
}

// BuildEquityCurve constructs the equity chart data.
//
// Ungrouped, a single series starts at startingBalance and adds each trade's
// pnl in date order; Current is its final balance. Grouped, every one of the
// first MaxGroups group values gets its own series starting at 0 that only
// accumulates that group's trades; trades without a value go to "Unknown",
// and Current is the sum of the visible series' final balances.
func BuildEquityCurve(trades []domain.Trade, startingBalance decimal.Decimal, opts EquityOptions) EquityCurve {
	curve := EquityCurve{Group: opts.Group.String(), Series: []EquitySeries{}}
	if len(trades) < 2 {
		curve.Insufficient = true
		curve.Current = startingBalance
		return curve
	}
	sorted := byDate(trades)

	if opts.Group.IsTotal() {
		series := buildSeries("Total", Palette[0], startingBalance, sorted)
		curve.Series = append(curve.Series, series)
		curve.Current = series.Final()
	} else {
		maxGroups := opts.MaxGroups
		if maxGroups <= 0 {
			maxGroups = DefaultMaxEquityGroups
		}
		hidden := make(map[string]bool, len(opts.Hidden))
		for _, h := range opts.Hidden {
			hidden[h] = true
		}
		groups := partition(sorted, opts.Group, func(v string) (string, bool) {
			if v == "" {
				return UnknownGroup, true
			}
			return v, true
		})
		for i, g := range groups {
			if i >= maxGroups {
				break
			}
			series := buildSeries(g.name, Palette[i%len(Palette)], decimal.Zero, g.trades)
			series.Visible = !hidden[g.name]
			if series.Visible {
				curve.Current = curve.Current.Add(series.Final())
			}
			curve.Series = append(curve.Series, series)
		}
	}

	curve.Axis = equityAxis(curve.Series, opts.Enlarged)
	return curve
}

func buildSeries(name, color string, start decimal.Decimal, trades []domain.Trade) EquitySeries {
	points := make([]EquityPoint, 0, len(trades)+1)
	points = append(points, EquityPoint{Index: 0, Balance: start})
	balance := start
	for i, t := range trades {
		balance = balance.Add(t.PnL)
		points = append(points, EquityPoint{
			Index:   i + 1,
			Date:    domain.FormatDate(t.Date),
			Balance: balance,
			PnL:     t.PnL,
			Symbol:  t.Symbol,
		})
	}
	return EquitySeries{Name: name, Color: color, Visible: true, Points: points}
}

func equityAxis(series []EquitySeries, enlarged bool) AxisRange {
	labels := AxisLabels
	if enlarged {
		labels = AxisLabelsEnlarged
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if !s.Visible {
			continue
		}
		for _, p := range s.Points {
			v := p.Balance.InexactFloat64()
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 0
	}
	return NiceAxis(lo, hi, labels)
}
