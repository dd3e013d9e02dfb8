package domain

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Numeric is a stored numeric attribute that may arrive as a JSON number,
// a numeric string or null.
type Numeric string

// UnmarshalJSON accepts numbers, strings and null. It never fails on content:
// anything that is not a usable number simply yields zero from Decimal.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = ""
	case data[0] == '"':
		s, err := strconv.Unquote(string(data))
		if err != nil {
			*n = ""
			return nil
		}
		*n = Numeric(s)
	default:
		*n = Numeric(data)
	}
	return nil
}

// MarshalJSON writes the value as a JSON number, or null when absent or unparseable.
func (n Numeric) MarshalJSON() ([]byte, error) {
	d, ok := n.parse()
	if !ok {
		return []byte("null"), nil
	}
	return []byte(d.String()), nil
}

// Decimal returns the parsed value, or zero when absent or unparseable.
func (n Numeric) Decimal() decimal.Decimal {
	d, _ := n.parse()
	return d
}

// Valid reports whether the value parses as a number.
func (n Numeric) Valid() bool {
	_, ok := n.parse()
	return ok
}

func (n Numeric) parse() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NumericFromDecimal builds a Numeric from a decimal value.
func NumericFromDecimal(d decimal.Decimal) Numeric {
	return Numeric(d.String())
}

// DateLayout is the canonical calendar date format used for storage and bucketing.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses a stored trade date and returns the civil date at UTC midnight.
// Timestamps keep the calendar day they were written in, whatever their offset.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// FormatDate formats a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
