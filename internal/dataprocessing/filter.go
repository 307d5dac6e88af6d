package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Jtofah/pdsnd-github/internal/errors"
)

// ErrInvalidFilter is the cause of every month/day parse failure
var ErrInvalidFilter = errors.New("invalid filter")

// filterAll is the wildcard accepted by both month and day filters
const filterAll = "all"

// filterMonths is the month vocabulary; the datasets cover January to June only.
var filterMonths = [...]time.Month{time.January, time.February, time.March, time.April, time.May, time.June}

// MonthFilter selects one calendar month (1-6) or, as zero, every month
type MonthFilter int

// AllMonths disables month filtering
const AllMonths MonthFilter = 0

// ParseMonth parses "all" or a month name from January to June, ignoring case
func ParseMonth(s string) (MonthFilter, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == filterAll {
		return AllMonths, nil
	}
	for _, m := range filterMonths {
		if strings.ToLower(m.String()) == name {
			return MonthFilter(m), nil
		}
	}
	return AllMonths, apperrors.NewValidationError(
		fmt.Sprintf("month must be all or one of january..june, got %q", s), ErrInvalidFilter)
}

// IsAll reports whether the filter keeps every month
func (m MonthFilter) IsAll() bool {
	return m == AllMonths
}

// String returns "all" or the month name
func (m MonthFilter) String() string {
	if m.IsAll() {
		return filterAll
	}
	return time.Month(m).String()
}

// DayFilter selects one day of the week or, as zero, every day.
// A specific day is stored as its time.Weekday plus one.
type DayFilter int

// AllDays disables day filtering
const AllDays DayFilter = 0

// DayOf returns the filter for a single weekday
func DayOf(d time.Weekday) DayFilter {
	return DayFilter(d + 1)
}

// ParseDay parses "all" or a day name, ignoring case
func ParseDay(s string) (DayFilter, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == filterAll {
		return AllDays, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return DayOf(d), nil
		}
	}
	return AllDays, apperrors.NewValidationError(
		fmt.Sprintf("day must be all or one of monday..sunday, got %q", s), ErrInvalidFilter)
}

// IsAll reports whether the filter keeps every day
func (d DayFilter) IsAll() bool {
	return d == AllDays
}

// Weekday returns the selected day; ok is false for AllDays
func (d DayFilter) Weekday() (day time.Weekday, ok bool) {
	if d.IsAll() {
		return 0, false
	}
	return time.Weekday(d - 1), true
}

// String returns "all" or the title-cased day name
func (d DayFilter) String() string {
	day, ok := d.Weekday()
	if !ok {
		return filterAll
	}
	return day.String()
}

// Criteria is the (month, day) pair restricting which trips are analyzed.
// The zero value keeps everything.
type Criteria struct {
	Month MonthFilter
	Day   DayFilter
}

// ParseCriteria parses month and day filter strings
func ParseCriteria(month, day string) (Criteria, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return Criteria{}, err
	}
	d, err := ParseDay(day)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Month: m, Day: d}, nil
}

// String summarizes the criteria, e.g. "month=March day=all"
func (c Criteria) String() string {
	return fmt.Sprintf("month=%s day=%s", c.Month, c.Day)
}

// FilterMonth returns the records whose derived Month matches m
func (t *TripTable) FilterMonth(m MonthFilter) *TripTable {
	if m.IsAll() {
		return t.where(func(TripRecord) bool { return true })
	}
	return t.where(func(r TripRecord) bool { return r.Month == int(m) })
}

// FilterDay returns the records whose derived Weekday matches d
func (t *TripTable) FilterDay(d DayFilter) *TripTable {
	day, ok := d.Weekday()
	if !ok {
		return t.where(func(TripRecord) bool { return true })
	}
	return t.where(func(r TripRecord) bool { return r.Weekday == day })
}

// Filter applies both criteria. The order does not matter: month then day
// yields the same records as day then month.
func (t *TripTable) Filter(c Criteria) *TripTable {
	return t.FilterMonth(c.Month).FilterDay(c.Day)
}
