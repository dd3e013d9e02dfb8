package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultStartingBalance applies when an account's starting balance is absent or unparseable.
var DefaultStartingBalance = decimal.NewFromInt(10000)

// Account is a trading journal: a named container of trades with its own starting balance.
type Account struct {
	ID              string
	Name            string
	StartingBalance decimal.Decimal
	Fields          []FieldDefinition
}

// CurrentBalance is the starting balance plus the pnl of every trade. It is never stored.
func (a Account) CurrentBalance(trades []Trade) decimal.Decimal {
	balance := a.StartingBalance
	for _, t := range trades {
		balance = balance.Add(t.PnL)
	}
	return balance
}

// AccountRecord is the persisted shape of an account.
type AccountRecord struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	StartingBalance Numeric `json:"starting_balance"`
	Fields          string  `json:"fields,omitempty"` // JSON-encoded []FieldDefinition
}

// ToAccount parses the record. A missing or malformed field list falls back to
// the default layout; fixed fields are always normalized.
func (r AccountRecord) ToAccount() Account {
	balance := DefaultStartingBalance
	if r.StartingBalance.Valid() {
		balance = r.StartingBalance.Decimal()
	}
	return Account{
		ID:              r.ID,
		Name:            r.Name,
		StartingBalance: balance,
		Fields:          ParseFields(r.Fields),
	}
}

// Record converts the account back to its persisted shape.
func (a Account) Record() AccountRecord {
	return AccountRecord{
		ID:              a.ID,
		Name:            a.Name,
		StartingBalance: NumericFromDecimal(a.StartingBalance),
		Fields:          EncodeFields(a.Fields),
	}
}

// ParseFields decodes a stored field list. Invalid or empty input yields DefaultFields.
func ParseFields(raw string) []FieldDefinition {
	if strings.TrimSpace(raw) == "" {
		return DefaultFields()
	}
	var fields []FieldDefinition
	if err := json.UnmarshalFromString(raw, &fields); err != nil || len(fields) == 0 {
		return DefaultFields()
	}
	return NormalizeFields(fields)
}

// EncodeFields serializes a field list for storage.
func EncodeFields(fields []FieldDefinition) string {
	if len(fields) == 0 {
		return ""
	}
	out, err := json.MarshalToString(fields)
	if err != nil {
		return ""
	}
	return out
}
