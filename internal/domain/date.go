package domain

import (
	"fmt"
	"time"
)

const dateLayout = "20060102"

// ParseDate validates an 8-digit YYYYMMDD calendar date.
func ParseDate(s string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYYMMDD", ErrInvalidDate, s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYYMMDD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DisplayDate turns YYYYMMDD into DD/MM/YYYY; malformed input is returned as-is.
func DisplayDate(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[6:8] + "/" + s[4:6] + "/" + s[0:4]
}

// CalendarDay is one cell of a month grid. Day is 0 for leading blanks.
type CalendarDay struct {
	Day      int    `json:"day"`
	Date     string `json:"date,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// CalendarMonth is a Sunday-first month grid for the date picker.
type CalendarMonth struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// NewCalendarMonth lays out the month containing display, flagging selected
// (YYYYMMDD, may be empty).
func NewCalendarMonth(display time.Time, selected string) CalendarMonth {
	year, month := display.Year(), display.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()

	cal := CalendarMonth{Year: year, Month: month}
	for i := 0; i < int(first.Weekday()); i++ {
		cal.Days = append(cal.Days, CalendarDay{})
	}
	for d := 1; d <= daysIn; d++ {
		date := FormatDate(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
		cal.Days = append(cal.Days, CalendarDay{Day: d, Date: date, Selected: date == selected})
	}
	return cal
}
