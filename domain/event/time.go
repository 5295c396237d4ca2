package event

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// millisDigits is the integer width of an epoch in milliseconds
// (Sep 2001 .. Nov 2286). Narrower integral values are seconds; wider
// ones are truncated to this many leading digits and read as milliseconds.
const millisDigits = 13

// FormatTime normalizes a timestamp to epoch seconds with millisecond
// precision. It returns false when v cannot be used, in which case the
// caller should omit the time.
//
//	FormatTime("1372187084")     -> 1372187084
//	FormatTime(1372187084424)    -> 1372187084.424
//	FormatTime(1372187084424123) -> 1372187084.424
//	FormatTime(1372187084.424)   -> 1372187084.424
//	FormatTime("not-a-number")   -> false
//
// This is a PURE function.
func FormatTime(v any) (float64, bool) {
	s, ok := timeText(v)
	if !ok {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0, false
	}

	// Fractional values are already seconds.
	if f != math.Trunc(f) {
		return math.Round(f*1000) / 1000, true
	}

	digits := strconv.FormatFloat(math.Abs(f), 'f', 0, 64)
	if len(digits) < millisDigits {
		return f, true
	}

	// Microseconds, nanoseconds and other wider values are cut to their
	// leading millisecond digits.
	millis, err := strconv.ParseFloat(digits[:millisDigits], 64)
	if err != nil {
		return 0, false
	}
	return math.Copysign(millis, f) / 1000, true
}

// TimeString renders seconds the way the host reads them: "1372187084.424".
func TimeString(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func timeText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case time.Time:
		if t.IsZero() {
			return "", false
		}
		return strconv.FormatInt(t.UnixMilli(), 10), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return "", false
		}
		return strconv.FormatInt(t.UnixMilli(), 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.FormatInt(int64(t), 10), true
	case int8:
		return strconv.FormatInt(int64(t), 10), true
	case int16:
		return strconv.FormatInt(int64(t), 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint8:
		return strconv.FormatUint(uint64(t), 10), true
	case uint16:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	default:
		return "", false
	}
}
