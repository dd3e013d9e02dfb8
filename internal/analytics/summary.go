package analytics

import (
	"github.com/shopspring/decimal"

	"tradeLedger/internal/domain"
)

// Summary holds the scalar performance indicators of a trade collection.
type Summary struct {
	TotalTrades int `json:"total_trades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Breakevens  int `json:"breakevens"`
	WinRate     int `json:"win_rate"` // percent, 0 when there are no wins or losses

	TotalPnL     decimal.Decimal `json:"total_pnl"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	GrossLoss    decimal.Decimal `json:"gross_loss"` // absolute value
	ProfitFactor Ratio           `json:"profit_factor"`
	AvgWin       int64           `json:"avg_win"`
	AvgLoss      int64           `json:"avg_loss"` // absolute value
	Expectancy   int64           `json:"expectancy"`
	ReturnOnRisk Ratio           `json:"return_on_risk"`

	StartingBalance decimal.Decimal `json:"starting_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	MonthlyGrowth   float64         `json:"monthly_growth"` // percent per month, linear

	MaxDrawdown    decimal.Decimal `json:"max_drawdown"`     // largest peak-to-trough fall in currency
	MaxDrawdownPct float64         `json:"max_drawdown_pct"` // same fall as percent of the peak
}

// Summarize folds a trade collection into its summary metrics. It is total:
// an empty collection yields zeros, and no ratio is ever NaN.
func Summarize(trades []domain.Trade, startingBalance decimal.Decimal) Summary {
	s := Summary{
		TotalTrades:     len(trades),
		StartingBalance: startingBalance,
		CurrentBalance:  startingBalance,
		ProfitFactor:    Finite(0),
		ReturnOnRisk:    Undefined(),
	}

	for _, t := range trades {
		switch t.Outcome {
		case domain.OutcomeWin:
			s.Wins++
		case domain.OutcomeLoss:
			s.Losses++
		default:
			s.Breakevens++
		}

		s.TotalPnL = s.TotalPnL.Add(t.PnL)
		if t.PnL.IsPositive() {
			s.GrossProfit = s.GrossProfit.Add(t.PnL)
		} else if t.PnL.IsNegative() {
			s.GrossLoss = s.GrossLoss.Add(t.PnL.Neg())
		}
	}

	s.WinRate = percent(s.Wins, s.Wins+s.Losses)
	s.CurrentBalance = startingBalance.Add(s.TotalPnL)

	switch {
	case s.GrossLoss.IsPositive():
		s.ProfitFactor = Finite(s.GrossProfit.Div(s.GrossLoss).InexactFloat64())
	case s.GrossProfit.IsPositive():
		s.ProfitFactor = Infinite()
	}

	s.AvgWin = divRound(s.GrossProfit, s.Wins)
	s.AvgLoss = divRound(s.GrossLoss, s.Losses)
	if len(trades) > 0 {
		wr := float64(s.WinRate)
		s.Expectancy = int64(roundHalfUp(wr/100*float64(s.AvgWin) - (100-wr)/100*float64(s.AvgLoss)))
	}
	if s.AvgLoss > 0 {
		s.ReturnOnRisk = Finite(float64(s.AvgWin) / float64(s.AvgLoss))
	}

	s.MonthlyGrowth = MonthlyGrowth(trades, startingBalance)
	s.MaxDrawdown, s.MaxDrawdownPct = maxDrawdown(trades, startingBalance)
	return s
}

// maxDrawdown walks the chronological balance and tracks the deepest fall from
// the running peak. The percentage is relative to the peak and stays 0 while
// the peak is not positive.
func maxDrawdown(trades []domain.Trade, startingBalance decimal.Decimal) (decimal.Decimal, float64) {
	balance := startingBalance
	peak := startingBalance
	var maxDD decimal.Decimal
	var maxPct float64

	for _, t := range byDate(trades) {
		balance = balance.Add(t.PnL)
		if balance.GreaterThan(peak) {
			peak = balance
			continue
		}
		dd := peak.Sub(balance)
		if dd.GreaterThan(maxDD) {
			maxDD = dd
		}
		if peak.IsPositive() {
			if pct := dd.Div(peak).InexactFloat64() * 100; pct > maxPct {
				maxPct = pct
			}
		}
	}
	return maxDD, maxPct
}
