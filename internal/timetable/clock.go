package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// Default school day bounds in minutes since midnight.
const (
	DefaultDayStart = 8 * 60
	DefaultDayEnd   = 22 * 60
	DefaultMinGap   = 30
)

const rangeSeparator = " - "

// ParseMinutes converts "HH:MM" (or "H:MM", "HH:MM:SS") into minutes since
// midnight. Missing or malformed input yields 0, which callers treat as unknown.
func ParseMinutes(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0
	}
	total := hours*60 + minutes
	if total > 24*60 {
		return 0
	}
	return total
}

// FormatMinutes renders minutes as zero padded "HH:MM". Values are not wrapped
// at midnight; negative input renders as "00:00".
func FormatMinutes(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%02d:%02d", n/60, n%60)
}

// FormatRange renders "HH:MM - HH:MM".
func FormatRange(start, end int) string {
	return FormatMinutes(start) + rangeSeparator + FormatMinutes(end)
}

// RangeStart parses the start of a "HH:MM - HH:MM" range.
func RangeStart(timeRange string) int {
	start, _, _ := strings.Cut(timeRange, "-")
	return ParseMinutes(start)
}
