package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDate    = errors.New("trade date is not a valid calendar date")
	ErrInvalidOutcome = errors.New("trade outcome is not win, loss or breakeven")
)

// Trade is one logged trade, parsed and ready for analysis.
type Trade struct {
	ID        string          // Opaque identifier, unique within an account
	AccountID string          // Owning account
	Symbol    string          // Free-text instrument label
	Outcome   Outcome         // Win, loss or breakeven as logged by the trader
	PnL       decimal.Decimal // Signed profit and loss in account currency
	RR        decimal.Decimal // Risk-reward ratio, zero when absent
	Direction Direction       // Long, short or none
	Date      time.Time       // Civil date at UTC midnight
	Extra     Extras          // User-defined and optional fixed fields
}

// TradeRecord is the persisted shape of a trade, as read from the store.
type TradeRecord struct {
	ID        string  `json:"id"`
	AccountID string  `json:"account_id"`
	Symbol    string  `json:"symbol"`
	Outcome   string  `json:"outcome"`
	PnL       Numeric `json:"pnl"`
	RR        Numeric `json:"rr"`
	Date      string  `json:"date"`
	Direction string  `json:"direction"`
	ExtraData string  `json:"extra_data"`
}

// ToTrade parses the record defensively. Malformed numbers become zero and a
// malformed extension map becomes empty; only an unusable date or outcome is
// reported, so the caller can skip the record.
func (r TradeRecord) ToTrade(fields []FieldDefinition) (Trade, error) {
	date, ok := ParseDate(r.Date)
	if !ok {
		return Trade{}, fmt.Errorf("trade %s: %q: %w", r.ID, r.Date, ErrInvalidDate)
	}
	outcome, ok := ParseOutcome(r.Outcome)
	if !ok {
		return Trade{}, fmt.Errorf("trade %s: %q: %w", r.ID, r.Outcome, ErrInvalidOutcome)
	}
	rr := r.RR.Decimal()
	if rr.IsNegative() {
		rr = decimal.Zero
	}
	return Trade{
		ID:        r.ID,
		AccountID: r.AccountID,
		Symbol:    strings.TrimSpace(r.Symbol),
		Outcome:   outcome,
		PnL:       r.PnL.Decimal(),
		RR:        rr,
		Direction: ParseDirection(r.Direction),
		Date:      date,
		Extra:     ParseExtras(r.ExtraData, fields),
	}, nil
}

// Record converts a trade back to its persisted shape.
func (t Trade) Record() TradeRecord {
	extras := t.Extra
	if extras == nil {
		extras = Extras{}
	}
	return TradeRecord{
		ID:        t.ID,
		AccountID: t.AccountID,
		Symbol:    t.Symbol,
		Outcome:   string(t.Outcome),
		PnL:       NumericFromDecimal(t.PnL),
		RR:        NumericFromDecimal(t.RR),
		Date:      FormatDate(t.Date),
		Direction: string(t.Direction),
		ExtraData: extras.Encode(),
	}
}
