package record

import (
	"fmt"
	"time"
)

// Record is the capability contract the sliding window needs from a record:
// named-field lookup returning an optional numeric or timestamp value. The
// window never interprets fields beyond these two accessors, so any
// application type with a notion of named fields can back a window.
type Record interface {
	// GetFloat64 returns the numeric value of a field and true, or
	// (0, false) when the field is missing, null, or not numeric.
	GetFloat64(field string) (float64, bool)
	// GetTime returns the timestamp value of a field and true, or
	// (zero, false) when the field is missing, null, or unparsable.
	GetTime(field string) (time.Time, bool)
}

// Dynamic is a record with arbitrary key-value pairs, typically parsed
// from JSON. It implements Record.
type Dynamic map[string]interface{}

var _ Record = Dynamic(nil)

// GetFloat64 retrieves a float64 value for a given field.
// Handles missing keys, null values, and integer-to-float conversion.
func (d Dynamic) GetFloat64(field string) (float64, bool) {
	val, exists := d[field]
	if !exists || val == nil {
		return 0, false
	}

	// Direct assertion first (the common case with JSON numbers).
	if fVal, ok := val.(float64); ok {
		return fVal, true
	}

	switch v := val.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	}

	// Value exists but is not a convertible numeric type.
	return 0, false
}

// HasNonNull reports whether a field exists and its value is not explicitly null.
func (d Dynamic) HasNonNull(field string) bool {
	val, exists := d[field]
	return exists && val != nil
}

// timeFormats are tried in order by GetTime.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// GetTime retrieves a timestamp value for a given field. Accepts an
// RFC3339-style string, a numeric value interpreted as Unix milliseconds,
// or a time.Time stored directly in the map.
func (d Dynamic) GetTime(field string) (time.Time, bool) {
	val, exists := d[field]
	if !exists || val == nil {
		return time.Time{}, false
	}

	switch v := val.(type) {
	case string:
		for _, format := range timeFormats {
			if t, err := time.Parse(format, v); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(v)), true
	case int64:
		return time.UnixMilli(v), true
	case int:
		return time.UnixMilli(int64(v)), true
	case time.Time:
		return v, true
	}

	return time.Time{}, false
}

// FieldSnippet returns a truncated string rendering of a field's value,
// useful for logging. Handles missing keys and long values.
func (d Dynamic) FieldSnippet(field string, maxLength int) string {
	value, exists := d[field]
	if !exists {
		return "<missing>"
	}

	strValue := fmt.Sprintf("%v", value)

	if maxLength <= 0 {
		return "..."
	}

	if len(strValue) > maxLength {
		return strValue[:maxLength] + "..."
	}

	return strValue
}
