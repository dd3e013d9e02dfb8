package domain

// FieldType controls how a collectible attribute is entered and how its value is typed.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldTextarea FieldType = "textarea"
	FieldRating   FieldType = "rating"
	FieldFile     FieldType = "file"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldSelect, FieldTextarea, FieldRating, FieldFile:
		return true
	}
	return false
}

// Identifiers of the built-in fields.
const (
	FieldIDSymbol      = "symbol"
	FieldIDOutcome     = "outcome"
	FieldIDPnL         = "pnl"
	FieldIDDate        = "date"
	FieldIDDirection   = "direction"
	FieldIDRR          = "rr"
	FieldIDRiskPercent = "riskPercent"
	FieldIDConfidence  = "confidence"
	FieldIDRating      = "rating"
	FieldIDSession     = "session"
	FieldIDTimeframe   = "timeframe"
	FieldIDNotes       = "notes"
	FieldIDImage       = "image"
)

// FieldDefinition describes one collectible trade attribute.
type FieldDefinition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Enabled  bool      `json:"enabled"`
	Fixed    bool      `json:"fixed"`
	Options  []string  `json:"options,omitempty"`
}

// fixedFields are always enabled and required, whatever was persisted.
var fixedFields = []FieldDefinition{
	{ID: FieldIDSymbol, Label: "Symbol", Type: FieldText, Required: true, Enabled: true, Fixed: true},
	{ID: FieldIDOutcome, Label: "Outcome", Type: FieldSelect, Required: true, Enabled: true, Fixed: true,
		Options: []string{string(OutcomeWin), string(OutcomeLoss), string(OutcomeBreakeven)}},
	{ID: FieldIDPnL, Label: "PnL ($)", Type: FieldNumber, Required: true, Enabled: true, Fixed: true},
	{ID: FieldIDDate, Label: "Date", Type: FieldDate, Required: true, Enabled: true, Fixed: true},
}

// IsFixedField reports whether id names one of the fixed fields.
func IsFixedField(id string) bool {
	for _, f := range fixedFields {
		if f.ID == id {
			return true
		}
	}
	return false
}

// DefaultFields returns the field layout a new account starts with.
func DefaultFields() []FieldDefinition {
	fields := make([]FieldDefinition, 0, len(fixedFields)+9)
	for _, f := range fixedFields {
		fields = append(fields, cloneField(f))
	}
	return append(fields,
		FieldDefinition{ID: FieldIDDirection, Label: "Direction", Type: FieldSelect, Enabled: true, Options: []string{"long", "short"}},
		FieldDefinition{ID: FieldIDRR, Label: "RR", Type: FieldNumber, Enabled: true},
		FieldDefinition{ID: FieldIDRiskPercent, Label: "% Risk", Type: FieldNumber, Enabled: true},
		FieldDefinition{ID: FieldIDConfidence, Label: "Confidence", Type: FieldSelect, Enabled: true, Options: []string{"High", "Medium", "Low"}},
		FieldDefinition{ID: FieldIDRating, Label: "Rating", Type: FieldRating, Enabled: true},
		FieldDefinition{ID: FieldIDSession, Label: "Session", Type: FieldSelect, Enabled: true, Options: []string{"London", "New York", "Asian"}},
		FieldDefinition{ID: FieldIDTimeframe, Label: "Timeframe", Type: FieldSelect, Enabled: true, Options: []string{"1m", "5m", "15m", "1h", "4h", "1d"}},
		FieldDefinition{ID: FieldIDNotes, Label: "Notes", Type: FieldTextarea, Enabled: true},
		FieldDefinition{ID: FieldIDImage, Label: "Image", Type: FieldFile, Enabled: true},
	)
}

// NormalizeFields returns a copy of fields where every fixed field is enabled,
// required and typed as built in. Missing fixed fields are appended, unknown
// types fall back to text and duplicate identifiers keep their first definition.
func NormalizeFields(fields []FieldDefinition) []FieldDefinition {
	out := make([]FieldDefinition, 0, len(fields)+len(fixedFields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.ID == "" || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		if fixed, ok := lookupFixed(f.ID); ok {
			label := fixed.Label
			if f.Label != "" {
				label = f.Label
			}
			fixed = cloneField(fixed)
			fixed.Label = label
			out = append(out, fixed)
			continue
		}
		f = cloneField(f)
		f.Fixed = false
		if !f.Type.Valid() {
			f.Type = FieldText
		}
		out = append(out, f)
	}
	for _, f := range fixedFields {
		if !seen[f.ID] {
			out = append(out, cloneField(f))
		}
	}
	return out
}

// FindField returns the definition with the given id.
func FindField(fields []FieldDefinition, id string) (FieldDefinition, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

func lookupFixed(id string) (FieldDefinition, bool) {
	return FindField(fixedFields, id)
}

func cloneField(f FieldDefinition) FieldDefinition {
	if f.Options != nil {
		f.Options = append([]string(nil), f.Options...)
	}
	return f
}
