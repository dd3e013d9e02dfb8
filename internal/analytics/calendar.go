package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradeLedger/internal/domain"
)

// DayPnL is the summed pnl of one calendar date.
type DayPnL struct {
	Date   string          `json:"date"`
	PnL    decimal.Decimal `json:"pnl"`
	Trades int             `json:"trades"`
}

type dayBucket struct {
	date time.Time
	DayPnL
}

// bucketDays sums pnl per exact date, in order of first appearance.
func bucketDays(trades []domain.Trade) []*dayBucket {
	var days []*dayBucket
	index := make(map[string]*dayBucket)
	for _, t := range trades {
		key := domain.FormatDate(t.Date)
		b, ok := index[key]
		if !ok {
			b = &dayBucket{date: t.Date, DayPnL: DayPnL{Date: key}}
			index[key] = b
			days = append(days, b)
		}
		b.PnL = b.PnL.Add(t.PnL)
		b.Trades++
	}
	return days
}

// DailyPnL sums pnl per date, ascending. With includeNonTrading every date
// between the first and last trading day gets an entry, zero when no trade
// fell on it.
func DailyPnL(trades []domain.Trade, includeNonTrading bool) []DayPnL {
	days := bucketDays(trades)
	sort.SliceStable(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	out := make([]DayPnL, 0, len(days))
	if !includeNonTrading || len(days) == 0 {
		for _, d := range days {
			out = append(out, d.DayPnL)
		}
		return out
	}

	next := 0
	last := days[len(days)-1].date
	for day := days[0].date; !day.After(last); day = day.AddDate(0, 0, 1) {
		if next < len(days) && days[next].date.Equal(day) {
			out = append(out, days[next].DayPnL)
			next++
			continue
		}
		out = append(out, DayPnL{Date: domain.FormatDate(day), PnL: decimal.Zero})
	}
	return out
}

// BestWorstDay returns the dates with the highest and lowest summed pnl.
// Ties go to the date whose first trade appears earliest in the collection.
func BestWorstDay(trades []domain.Trade) (best, worst DayPnL, ok bool) {
	days := bucketDays(trades)
	if len(days) == 0 {
		return DayPnL{}, DayPnL{}, false
	}
	best, worst = days[0].DayPnL, days[0].DayPnL
	for _, d := range days[1:] {
		if d.PnL.GreaterThan(best.PnL) {
			best = d.DayPnL
		}
		if d.PnL.LessThan(worst.PnL) {
			worst = d.DayPnL
		}
	}
	return best, worst, true
}

// WeekdayPnL is the summed pnl of one weekday.
type WeekdayPnL struct {
	Weekday time.Weekday    `json:"weekday"`
	Name    string          `json:"name"`
	PnL     decimal.Decimal `json:"pnl"`
	Trades  int             `json:"trades"`
}

// WeekdayBreakdown sums pnl per weekday for Monday through Friday. Weekend
// trades are left out of this view.
func WeekdayBreakdown(trades []domain.Trade) []WeekdayPnL {
	out := make([]WeekdayPnL, 5)
	for i := range out {
		wd := time.Weekday(i + 1)
		out[i] = WeekdayPnL{Weekday: wd, Name: wd.String()[:3], PnL: decimal.Zero}
	}
	for _, t := range trades {
		wd := t.Date.Weekday()
		if wd == time.Sunday || wd == time.Saturday {
			continue
		}
		out[wd-1].PnL = out[wd-1].PnL.Add(t.PnL)
		out[wd-1].Trades++
	}
	return out
}

// MonthPnL is the summed pnl of one calendar month.
type MonthPnL struct {
	Month  string          `json:"month"` // YYYY-MM
	PnL    decimal.Decimal `json:"pnl"`
	Trades int             `json:"trades"`
}

// MonthlyPnL sums pnl per calendar month, ascending.
func MonthlyPnL(trades []domain.Trade) []MonthPnL {
	var out []MonthPnL
	index := make(map[string]int)
	for _, t := range byDate(trades) {
		key := t.Date.Format("2006-01")
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, MonthPnL{Month: key})
		}
		out[i].PnL = out[i].PnL.Add(t.PnL)
		out[i].Trades++
	}
	if out == nil {
		out = []MonthPnL{}
	}
	return out
}

// MonthlyGrowth is the total percentage growth from the starting balance to
// the current balance, divided by the number of calendar months spanned by the
// first and last trade (at least 1). It is a linear average, not compounded,
// and 0 without trades or without a positive starting balance.
func MonthlyGrowth(trades []domain.Trade, startingBalance decimal.Decimal) float64 {
	if len(trades) == 0 || !startingBalance.IsPositive() {
		return 0
	}
	first, last := trades[0].Date, trades[0].Date
	total := decimal.Zero
	for _, t := range trades {
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
		total = total.Add(t.PnL)
	}
	months := (last.Year()-first.Year())*12 + int(last.Month()-first.Month()) + 1
	if months < 1 {
		months = 1
	}
	growth := total.Div(startingBalance).InexactFloat64() * 100
	return growth / float64(months)
}
