package utils

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses duration string like "5m", falling back to def.
func ParseDuration(d string, def time.Duration) time.Duration {
	if d == "" {
		return def
	}
	duration, err := time.ParseDuration(d)
	if err != nil || duration < 0 {
		return def
	}
	return duration
}

// ParseValue turns a query-string style value into a number or bool when it
// looks like one, otherwise returns the trimmed string.
func ParseValue(s string) interface{} {
	s = strings.TrimSpace(s)

	if IsNumericLiteral(s) {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// IsNumericLiteral reports whether s (after trimming) is a plain decimal or
// scientific-notation number. Inf, NaN and hex forms are rejected.
func IsNumericLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Numeric converts a value to float64 on a best-effort basis. Numbers pass
// through, numeric strings are parsed, booleans map to 1/0. Anything else
// (nil, empty or non-numeric strings, objects) yields NaN.
func Numeric(v interface{}) float64 {
	switch val := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		if !IsNumericLiteral(val) {
			return math.NaN()
		}
		f, _ := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return rv.Convert(reflect.TypeOf(float64(0))).Float()
		}
		return math.NaN()
	}
}

// IsNumber reports whether v holds a Go numeric type (not a numeric string).
func IsNumber(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return true
	}
	return false
}

// String renders a scalar the way it appears in CSV text: numbers without a
// trailing ".0", nil as the empty string.
func String(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return strconv.FormatFloat(rv.Convert(reflect.TypeOf(float64(0))).Float(), 'f', -1, 64)
		}
		return fmt.Sprint(v)
	}
}

// IsEmpty reports whether v counts as a missing value: nil or a blank string.
func IsEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}
