package sip2

import (
	"fmt"
	"strconv"
	"time"
)

// DateFormat is the SIP2 fixed 18-character date layout:
// YYYYMMDD, 4 blanks, HHMMSS.
const DateFormat = "20060102    150405"

// YesNo renders booleans as Y/N. Strings pass through untouched so callers
// may hand over pre-rendered values.
func YesNo(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "Y"
		}
		return "N"
	case string:
		return val
	default:
		return "N"
	}
}

// OneZero renders booleans as 1/0, the encoding used by the ok fixed field.
func OneZero(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "1"
		}
		return "0"
	case string:
		return val
	default:
		return "0"
	}
}

// SIPDate renders a time.Time in the protocol's fixed date layout.
// The zero time renders as the current layout applied to it, which callers
// should avoid; strings pass through for already-rendered dates.
func SIPDate(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(DateFormat)
	case string:
		return val
	default:
		return fmt.Sprint(v)
	}
}

// LanguageCode maps an ISO 639-2 language name onto its 3-digit SIP2 code.
// Values that already look like 3-digit codes pass through.
func LanguageCode(v any) string {
	s, ok := v.(string)
	if !ok {
		return LanguageUnknown
	}
	if len(s) == 3 && isDigits(s) {
		return s
	}
	return languageCode(s)
}

// formatValue is the default rendering for values attached without a
// transform.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "Y"
		}
		return "N"
	case int:
		return strconv.Itoa(val)
	case time.Time:
		return val.UTC().Format(DateFormat)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
