package dwca

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the sortable, locale-invariant layout used for every date cell.
const DateLayout = "2006-01-02T15:04:05"

// Sanitize strips tab, newline and carriage return characters so a value can
// never break the row or column structure of a tab-delimited table.
func Sanitize(value string) string {
	if !strings.ContainsAny(value, "\t\n\r") {
		return value
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return -1
		}
		return r
	}, value)
}

// FormatTime renders a timestamp in its own location using DateLayout.
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatUncertainty applies the coordinate uncertainty rule: zero becomes 1,
// negative values are dropped, anything else is written as-is.
func FormatUncertainty(v *int) string {
	if v == nil {
		return ""
	}
	switch {
	case *v == 0:
		return "1"
	case *v < 0:
		return ""
	default:
		return strconv.Itoa(*v)
	}
}

// formatInterval renders start, or start/end when the interval spans time.
func formatInterval(start, end *time.Time) string {
	s := FormatTime(start)
	if s == "" {
		return FormatTime(end)
	}
	if end == nil || end.Equal(*start) {
		return s
	}
	return s + "/" + FormatTime(end)
}
