package domain

import "strings"

// Outcome is the result a trader assigns to a logged trade.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeBreakeven Outcome = "breakeven"
)

// ParseOutcome converts a stored outcome string (case-insensitive) into an Outcome.
func ParseOutcome(s string) (Outcome, bool) {
	switch Outcome(strings.ToLower(strings.TrimSpace(s))) {
	case OutcomeWin:
		return OutcomeWin, true
	case OutcomeLoss:
		return OutcomeLoss, true
	case OutcomeBreakeven, "be":
		return OutcomeBreakeven, true
	default:
		return "", false
	}
}

// Direction is the side of a trade. The zero value means the direction was not recorded.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// ParseDirection converts a stored direction. Unknown or empty values map to DirectionNone.
func ParseDirection(s string) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionLong:
		return DirectionLong
	case DirectionShort:
		return DirectionShort
	default:
		return DirectionNone
	}
}

// Label returns the display label used when trades are grouped by direction.
func (d Direction) Label() string {
	switch d {
	case DirectionLong:
		return "Long"
	case DirectionShort:
		return "Short"
	default:
		return ""
	}
}
