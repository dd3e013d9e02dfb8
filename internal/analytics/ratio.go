package analytics

import (
	"fmt"
	"strconv"
)

// RatioKind tags how a Ratio should be read.
type RatioKind int

const (
	RatioFinite RatioKind = iota
	RatioInfinite
	RatioUndefined
)

// String returns the lowercase name of the kind.
func (k RatioKind) String() string {
	switch k {
	case RatioInfinite:
		return "infinite"
	case RatioUndefined:
		return "undefined"
	default:
		return "finite"
	}
}

// Ratio is a quotient that may have no finite value: profit factor with no
// losing trades is infinite, return on risk with no average loss is undefined.
// Value is only meaningful for RatioFinite.
type Ratio struct {
	Kind  RatioKind
	Value float64
}

// Finite wraps a finite value.
func Finite(v float64) Ratio { return Ratio{Kind: RatioFinite, Value: v} }

// Infinite is the ratio of a positive amount to nothing.
func Infinite() Ratio { return Ratio{Kind: RatioInfinite} }

// Undefined marks a ratio that cannot be computed.
func Undefined() Ratio { return Ratio{Kind: RatioUndefined} }

// IsFinite reports whether the ratio carries a number.
func (r Ratio) IsFinite() bool { return r.Kind == RatioFinite }

// String formats the ratio for display: two decimals, "∞" or "-".
func (r Ratio) String() string {
	switch r.Kind {
	case RatioInfinite:
		return "∞"
	case RatioUndefined:
		return "-"
	default:
		return strconv.FormatFloat(r.Value, 'f', 2, 64)
	}
}

// MarshalJSON encodes the ratio as {"kind":..,"value":..,"display":..};
// value is null unless the ratio is finite.
func (r Ratio) MarshalJSON() ([]byte, error) {
	value := "null"
	if r.IsFinite() {
		value = strconv.FormatFloat(r.Value, 'f', -1, 64)
	}
	return []byte(fmt.Sprintf(`{"kind":%q,"value":%s,"display":%q}`, r.Kind.String(), value, r.String())), nil
}
