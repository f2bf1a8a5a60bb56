package params

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Typed extraction at a resolved leaf. Numeric extractors accept both a
// JSON number and a numeric string; uintValue additionally rejects
// negative values at the int64 fallback stage.

func stringValue(v gjson.Result) (string, bool) {
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

func intValue(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return parseInt(strings.TrimSpace(v.Raw))
	case gjson.String:
		return parseInt(strings.TrimSpace(v.Str))
	}
	return 0, false
}

func parseInt(s string) (int, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(i), true
	}
	// Accept integral floats like 20.0.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return int(f), true
	}
	return 0, false
}

func floatValue(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func uintValue(v gjson.Result) (uint64, bool) {
	var s string
	switch v.Type {
	case gjson.Number:
		// Parse the raw token, not the float64 conversion: 64-bit seeds
		// exceed float64 precision.
		s = strings.TrimSpace(v.Raw)
	case gjson.String:
		s = strings.TrimSpace(v.Str)
	default:
		return 0, false
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, true
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f == math.Trunc(f) {
		return uint64(f), true
	}
	return 0, false
}

func boolValue(v gjson.Result) (bool, bool) {
	switch v.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	case gjson.String:
		if b, err := strconv.ParseBool(strings.TrimSpace(v.Str)); err == nil {
			return b, true
		}
	}
	return false, false
}
