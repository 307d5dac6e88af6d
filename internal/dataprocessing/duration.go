package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// DurationParts is a duration broken down by successive floor division
type DurationParts struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds float64
}

// SplitDuration breaks seconds into days, hours, minutes and the remaining
// (possibly fractional) seconds. Negative input is treated as zero.
func SplitDuration(seconds float64) DurationParts {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	seconds = roundMicro(seconds)

	days := math.Floor(seconds / secondsPerDay)
	rem := seconds - days*secondsPerDay
	hours := math.Floor(rem / secondsPerHour)
	rem -= hours * secondsPerHour
	minutes := math.Floor(rem / secondsPerMinute)
	rem -= minutes * secondsPerMinute

	return DurationParts{
		Days:    int64(days),
		Hours:   int64(hours),
		Minutes: int64(minutes),
		Seconds: roundMicro(rem),
	}
}

// roundMicro rounds to microseconds, hiding float noise such as 26.600000000000364
func roundMicro(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Total returns the number of seconds the parts add up to
func (p DurationParts) Total() float64 {
	return float64(p.Days)*secondsPerDay + float64(p.Hours)*secondsPerHour +
		float64(p.Minutes)*secondsPerMinute + p.Seconds
}

// String renders "D days, H hours, M minutes, S seconds"
func (p DurationParts) String() string {
	return fmt.Sprintf("%d days, %d hours, %d minutes, %s seconds",
		p.Days, p.Hours, p.Minutes, strconv.FormatFloat(p.Seconds, 'f', -1, 64))
}

// FormatDuration renders seconds as "D days, H hours, M minutes, S seconds".
// All four parts are always present; FormatDuration(0) is
// "0 days, 0 hours, 0 minutes, 0 seconds".
func FormatDuration(seconds float64) string {
	return SplitDuration(seconds).String()
}
