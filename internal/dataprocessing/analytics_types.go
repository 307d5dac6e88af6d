package dataprocessing

import (
	"time"
)

// Report names used for timing and metrics
const (
	ReportTime     = "time"
	ReportStation  = "station"
	ReportDuration = "duration"
	ReportUser     = "user"
)

// TimeStats holds the most frequent times of travel.
// Available is false when the table is empty.
type TimeStats struct {
	Available bool
	Month     int
	Weekday   time.Weekday
	Hour      int
}

// MonthName returns the English name of Month
func (s TimeStats) MonthName() string {
	return time.Month(s.Month).String()
}

// StationStats holds the most popular stations and station pair.
// Available is false when the table is empty.
type StationStats struct {
	Available    bool
	StartStation string
	EndStation   string
	Trip         string // "start --> end"
}

// DurationStats aggregates Trip Duration in seconds over records that carry
// a usable duration. Available is false when there are none.
type DurationStats struct {
	Available bool
	Count     int
	Total     float64
	Mean      float64
	Max       float64
	Min       float64
}

// CategoryCount is one category and its number of trips
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryStats counts a categorical column. Present is false when the
// column does not exist in the dataset.
type CategoryStats struct {
	Present bool
	Counts  []CategoryCount
}

// Available reports whether there is anything to show
func (c CategoryStats) Available() bool {
	return c.Present && len(c.Counts) > 0
}

// BirthYearStats summarizes Birth Year. Present is false when the column does
// not exist; Available is false when it exists but holds no values.
type BirthYearStats struct {
	Present    bool
	Available  bool
	Oldest     int // earliest year
	Youngest   int // latest year
	MostCommon int
}

// UserStats groups the three independently reported demographic columns
type UserStats struct {
	UserTypes  CategoryStats
	Genders    CategoryStats
	BirthYears BirthYearStats
}

// Summary is the output of all four reporters over one table, with the
// time each one took.
type Summary struct {
	Time     TimeStats
	Station  StationStats
	Duration DurationStats
	User     UserStats
	Elapsed  map[string]time.Duration
}
