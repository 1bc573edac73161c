package datefmt

import (
	"fmt"
	"time"
)

var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var WeekdayHeader = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// MonthView is the month shown by the date picker.
type MonthView struct {
	Year  int
	Month time.Month
}

// ViewOf opens the picker on the month of a stored value.
func ViewOf(stored string) MonthView {
	t := Parse(stored)
	return MonthView{Year: t.Year(), Month: t.Month()}
}

// Shift moves the view by n months, rolling over year boundaries.
func (v MonthView) Shift(n int) MonthView {
	t := time.Date(v.Year, v.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthView{Year: t.Year(), Month: t.Month()}
}

// Title names the month. Out-of-range months, including the zero value, are
// normalised the way Shift does.
func (v MonthView) Title() string {
	n := v.Shift(0)
	return fmt.Sprintf("%s %d", MonthNames[n.Month-1], n.Year)
}

// Cells lays the month out on a Sunday-first grid. Zero entries are the
// blanks before the first day.
func (v MonthView) Cells() []int {
	first := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	n := DaysIn(v.Year, v.Month)

	cells := make([]int, 0, int(first)+n)
	for i := 0; i < int(first); i++ {
		cells = append(cells, 0)
	}
	for d := 1; d <= n; d++ {
		cells = append(cells, d)
	}
	return cells
}

// Select returns the canonical text for a day of this view.
func (v MonthView) Select(d int) string {
	return fmt.Sprintf("%02d/%02d/%04d", d, int(v.Month), v.Year)
}

func (v MonthView) IsSelected(stored string, d int) bool {
	return IsSelected(stored, d, v.Month, v.Year)
}

func (v MonthView) IsToday(d int) bool {
	t := Today()
	return t.Year() == v.Year && t.Month() == v.Month && t.Day() == d
}
