package monthkey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the month key format, e.g. "2025-04".
const Layout = "2006-01"

// Format returns the month key for a point in time.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Current returns the month key for the current local time.
func Current() string {
	return Format(time.Now())
}

// Parse parses a month key like "2025-04".
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t, nil
}

// Display returns the long display form of a month key, e.g. "April 2025".
// An unparsable key is returned unchanged.
func Display(key string) string {
	t, err := Parse(key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}

// FromEndDate derives a month key from a US-format statement date
// ("MM/DD/YYYY"), e.g. "04/30/2025" -> "2025-04".
func FromEndDate(date string) (string, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[2]) != 4 {
		return "", fmt.Errorf("invalid statement date %q", date)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month in statement date %q", date)
	}
	return parts[2] + "-" + parts[0], nil
}

// filenameDate matches date-shaped digit clusters such as "2025-04-30",
// "20250430" or "04_2025" inside attachment filenames.
var filenameDate = regexp.MustCompile(`\d{2,4}[-_.]?\d{2}(?:[-_.]?\d{2,4})?`)

// FromFilename tries to derive a month key from a date-shaped substring of a
// statement filename. Reports false when no plausible year/month is present.
func FromFilename(name string) (string, bool) {
	for _, match := range filenameDate.FindAllString(name, -1) {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, match)
		if len(digits) < 6 {
			continue
		}
		if key, ok := yearMonth(digits[:4], digits[4:6]); ok {
			return key, true
		}
		if key, ok := yearMonth(digits[len(digits)-4:], digits[:2]); ok {
			return key, true
		}
	}
	return "", false
}

func yearMonth(ys, ms string) (string, bool) {
	year, err := strconv.Atoi(ys)
	if err != nil || year < 1990 || year > 2100 {
		return "", false
	}
	month, err := strconv.Atoi(ms)
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", year, month), true
}
