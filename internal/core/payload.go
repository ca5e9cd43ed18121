package core

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// DateLayout is the calendar-date form every stored date takes.
const DateLayout = "2006-01-02"

// Payload is a decoded request body.
type Payload map[string]any

// Has reports whether key was sent, even with a null value.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Truthy reports whether key holds a truthy value.
func (p Payload) Truthy(key string) bool {
	return Truthy(p[key])
}

// Truthy treats nil, "", zero numbers, NaN and false as missing. Arrays and
// objects are truthy even when empty.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0 && !math.IsNaN(float64(val))
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case time.Time:
		return !val.IsZero()
	default:
		return true
	}
}

// NormalizeDate turns a date value into its stored form. Strings longer than
// ten characters keep their first ten; time values become their UTC calendar
// date.
func NormalizeDate(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		if utf8.RuneCountInString(val) > 10 {
			return string([]rune(val)[:10]), nil
		}
		return val, nil
	case time.Time:
		return val.UTC().Format(DateLayout), nil
	case *time.Time:
		if val == nil {
			return "", nil
		}
		return val.UTC().Format(DateLayout), nil
	default:
		return "", fmt.Errorf("date must be a string, got %T", v)
	}
}

// text returns v as a string, falling back to "" for falsy values.
func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if !Truthy(v) {
		return ""
	}
	return fmt.Sprint(v)
}

// tags keeps array values as a string slice and replaces anything else with
// an empty one.
func tags(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string{}, val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, t := range val {
			if s, ok := t.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(t))
		}
		return out
	default:
		return []string{}
	}
}
