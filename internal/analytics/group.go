package analytics

import (
	"errors"
	"fmt"
	"strings"

	"tradeLedger/internal/domain"
)

var (
	ErrInvalidGroupKey = errors.New("invalid grouping key")
	ErrInvalidMetric   = errors.New("invalid breakdown metric")
)

// UnknownGroup labels trades that have no value for the grouping field.
const UnknownGroup = "Unknown"

// GroupKind selects which trade attribute partitions a collection.
type GroupKind int

const (
	GroupTotal GroupKind = iota
	GroupSymbol
	GroupDirection
	GroupField
)

// GroupKey is a validated grouping selector.
type GroupKey struct {
	Kind  GroupKind
	Field string // extension field id, only for GroupField
}

// Common selectors.
var (
	ByTotal     = GroupKey{Kind: GroupTotal}
	BySymbol    = GroupKey{Kind: GroupSymbol}
	ByDirection = GroupKey{Kind: GroupDirection}
)

// ByField groups on an extension field.
func ByField(id string) GroupKey {
	return GroupKey{Kind: GroupField, Field: id}
}

// String returns the selector as accepted by ParseGroupKey.
func (k GroupKey) String() string {
	switch k.Kind {
	case GroupSymbol:
		return "symbol"
	case GroupDirection:
		return "direction"
	case GroupField:
		return k.Field
	default:
		return "total"
	}
}

// IsTotal reports whether the key means "no grouping".
func (k GroupKey) IsTotal() bool { return k.Kind == GroupTotal }

// ParseGroupKey validates a grouping selector against the account's fields.
// "", "total" and "none" mean ungrouped. Any other value must be "symbol",
// "direction" or the id of a non-fixed field; everything else is rejected.
func ParseGroupKey(s string, fields []domain.FieldDefinition) (GroupKey, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "total", "none":
		return ByTotal, nil
	case domain.FieldIDSymbol:
		return BySymbol, nil
	case domain.FieldIDDirection:
		return ByDirection, nil
	}
	if domain.IsFixedField(s) {
		return GroupKey{}, fmt.Errorf("%w: %q is not categorical", ErrInvalidGroupKey, s)
	}
	if _, ok := domain.FindField(fields, s); !ok {
		return GroupKey{}, fmt.Errorf("%w: unknown field %q", ErrInvalidGroupKey, s)
	}
	return ByField(s), nil
}

// value returns the trade's group label, or "" when it has none.
func (k GroupKey) value(t domain.Trade) string {
	switch k.Kind {
	case GroupSymbol:
		return t.Symbol
	case GroupDirection:
		return t.Direction.Label()
	case GroupField:
		if k.Field == domain.FieldIDRR {
			if t.RR.IsZero() {
				return ""
			}
			return t.RR.String()
		}
		return t.Extra.Text(k.Field)
	default:
		return ""
	}
}

// group is one partition of a collection, in discovery order.
type group struct {
	name   string
	trades []domain.Trade
}

// partition splits trades by key in order of first appearance. label maps a
// raw value to its bucket name; returning false drops the trade.
func partition(trades []domain.Trade, key GroupKey, label func(string) (string, bool)) []*group {
	var groups []*group
	index := make(map[string]*group)
	for _, t := range trades {
		name, ok := label(key.value(t))
		if !ok {
			continue
		}
		g, exists := index[name]
		if !exists {
			g = &group{name: name}
			index[name] = g
			groups = append(groups, g)
		}
		g.trades = append(g.trades, t)
	}
	return groups
}
