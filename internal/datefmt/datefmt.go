// Package datefmt converts application dates between the DD/MM/YYYY display
// form, the legacy YYYY-MM-DD form and time.Time, and drives the month picker.
//
// Parse never fails: anything it cannot read becomes today.
package datefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Layout is the canonical stored and displayed form.
	Layout = "02/01/2006"
	// LegacyLayout is the form older records were saved in.
	LegacyLayout = "2006-01-02"
)

// Now is the clock used for the "today" fallback.
var Now = time.Now

var legacyLayouts = []string{
	LegacyLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Today returns the start of the current day in local time.
func Today() time.Time {
	return day(Now())
}

// TodayText is today's date in canonical form, the entry form default.
func TodayText() string {
	return Format(Today())
}

// Parse reads a stored or typed date.
func Parse(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return Today()
	}

	if strings.Contains(text, "/") {
		if t, ok := parseDMY(text); ok {
			return t
		}
		return Today()
	}

	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return day(t)
		}
	}
	return Today()
}

func parseDMY(text string) (time.Time, bool) {
	parts := strings.Split(text, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	d, m, y := nums[0], nums[1], nums[2]
	if y < 1 || y > 9999 || m < 1 || m > 12 || d < 1 || d > DaysIn(y, time.Month(m)) {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), true
}

// Format renders t as DD/MM/YYYY.
func Format(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}

func formatLegacy(year int, month time.Month, d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), d)
}

// Display renders a stored value for the list view. Legacy YYYY-MM-DD values are
// rewritten; anything unrecognised is shown as stored.
func Display(stored string) string {
	if stored == "" {
		return "-"
	}
	if strings.Contains(stored, "/") {
		return stored
	}
	parts := strings.Split(stored, "-")
	if len(parts) == 3 {
		return parts[2] + "/" + parts[1] + "/" + parts[0]
	}
	return stored
}

// IsSelected reports whether the stored value names the given day in either form.
func IsSelected(stored string, d int, month time.Month, year int) bool {
	canonical := fmt.Sprintf("%02d/%02d/%04d", d, int(month), year)
	return stored == canonical || stored == formatLegacy(year, month, d)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
