package domain

import (
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ValueKind tags the type of an extension field value.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueNumber
	ValueRating
	ValueOption
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueRating:
		return "rating"
	case ValueOption:
		return "option"
	default:
		return "text"
	}
}

// FieldValue is one typed value of the extension map.
type FieldValue struct {
	Kind   ValueKind
	Text   string
	Number float64
}

// TextValue builds a free-text value.
func TextValue(s string) FieldValue { return FieldValue{Kind: ValueText, Text: s} }

// NumberValue builds a numeric value.
func NumberValue(n float64) FieldValue { return FieldValue{Kind: ValueNumber, Number: n} }

// RatingValue builds a rating value. The 0-5 range is not enforced.
func RatingValue(n float64) FieldValue { return FieldValue{Kind: ValueRating, Number: n} }

// OptionValue builds a select option value.
func OptionValue(s string) FieldValue { return FieldValue{Kind: ValueOption, Text: s} }

// IsNumeric reports whether the value carries a number.
func (v FieldValue) IsNumeric() bool {
	return v.Kind == ValueNumber || v.Kind == ValueRating
}

// String renders the value the way it is shown and grouped on.
func (v FieldValue) String() string {
	if v.IsNumeric() {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// Extras is the typed extension map of a trade, keyed by field identifier.
type Extras map[string]FieldValue

// Get returns the value stored under key.
func (e Extras) Get(key string) (FieldValue, bool) {
	v, ok := e[key]
	return v, ok
}

// Text returns the trimmed display form of key, or "" when missing.
func (e Extras) Text(key string) string {
	v, ok := e[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// Encode serializes the map back to the stored JSON form. Numbers are written
// as JSON numbers and everything else as strings.
func (e Extras) Encode() string {
	if len(e) == 0 {
		return "{}"
	}
	bag := make(map[string]interface{}, len(e))
	for k, v := range e {
		if v.IsNumeric() {
			bag[k] = v.Number
		} else {
			bag[k] = v.Text
		}
	}
	out, err := json.MarshalToString(bag)
	if err != nil {
		return "{}"
	}
	return out
}

// ParseExtras decodes the stored extra_data JSON into a typed map, guided by
// the account's field definitions. Invalid or absent JSON yields an empty map;
// numeric fields that do not parse become zero.
func ParseExtras(raw string, fields []FieldDefinition) Extras {
	extras := Extras{}
	if strings.TrimSpace(raw) == "" {
		return extras
	}
	var bag map[string]interface{}
	if err := json.UnmarshalFromString(raw, &bag); err != nil {
		return extras
	}
	for key, v := range bag {
		if key == "" || v == nil {
			continue
		}
		def, known := FindField(fields, key)
		if fv, ok := typedValue(def, known, v); ok {
			extras[key] = fv
		}
	}
	return extras
}

func typedValue(def FieldDefinition, known bool, v interface{}) (FieldValue, bool) {
	if known {
		switch def.Type {
		case FieldNumber:
			return NumberValue(toNumber(v)), true
		case FieldRating:
			return RatingValue(toNumber(v)), true
		case FieldSelect:
			s, ok := toText(v)
			return OptionValue(s), ok
		default:
			s, ok := toText(v)
			return TextValue(s), ok
		}
	}
	switch val := v.(type) {
	case float64:
		return NumberValue(finite(val)), true
	default:
		s, ok := toText(v)
		return TextValue(s), ok
	}
}

func toNumber(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return finite(n)
	default:
		return 0
	}
}

func toText(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
