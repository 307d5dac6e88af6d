package dataprocessing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
)

const tracerName = "github.com/Jtofah/pdsnd-github/internal/dataprocessing"

// ComputeTimeStats finds the most common month, day of week and start hour
func ComputeTimeStats(t *TripTable) TimeStats {
	if t.Empty() {
		return TimeStats{}
	}

	months := make([]int, 0, t.Len())
	days := make([]time.Weekday, 0, t.Len())
	hours := make([]int, 0, t.Len())
	for _, r := range t.records {
		months = append(months, r.Month)
		days = append(days, r.Weekday)
		hours = append(hours, r.Hour())
	}

	month, _ := Mode(months)
	day, _ := Mode(days)
	hour, _ := Mode(hours)
	return TimeStats{Available: true, Month: month, Weekday: day, Hour: hour}
}

// ComputeStationStats finds the most common start station, end station and
// start/end combination. The combination is counted per trip, not derived
// from the two separate modes.
func ComputeStationStats(t *TripTable) StationStats {
	if t.Empty() {
		return StationStats{}
	}

	starts := make([]string, 0, t.Len())
	ends := make([]string, 0, t.Len())
	trips := make([]string, 0, t.Len())
	for _, r := range t.records {
		starts = append(starts, r.StartStation)
		ends = append(ends, r.EndStation)
		trips = append(trips, r.Trip())
	}

	start, _ := Mode(starts)
	end, _ := Mode(ends)
	trip, _ := Mode(trips)
	return StationStats{Available: true, StartStation: start, EndStation: end, Trip: trip}
}

// ComputeDurationStats totals and averages trip durations
func ComputeDurationStats(t *TripTable) DurationStats {
	durations := make([]float64, 0, t.Len())
	if t != nil {
		for _, r := range t.records {
			if r.HasDuration {
				durations = append(durations, r.Duration)
			}
		}
	}

	mean, ok := Mean(durations)
	if !ok {
		return DurationStats{}
	}
	lo, hi, _ := MinMax(durations)
	return DurationStats{
		Available: true,
		Count:     len(durations),
		Total:     Sum(durations),
		Mean:      mean,
		Max:       hi,
		Min:       lo,
	}
}

// ComputeUserStats reports user types, genders and birth years. Each column is
// handled on its own so a missing one does not hide the others.
func ComputeUserStats(t *TripTable) UserStats {
	var schema Schema
	if t != nil {
		schema = t.schema
	}

	stats := UserStats{
		UserTypes:  CategoryStats{Present: schema.HasUserType},
		Genders:    CategoryStats{Present: schema.HasGender},
		BirthYears: BirthYearStats{Present: schema.HasBirthYear},
	}
	if t.Empty() {
		return stats
	}

	var userTypes, genders []string
	var years []float64
	for _, r := range t.records {
		if schema.HasUserType && r.UserType != "" {
			userTypes = append(userTypes, r.UserType)
		}
		if schema.HasGender && r.Gender != "" {
			genders = append(genders, r.Gender)
		}
		if schema.HasBirthYear && r.HasBirthYear {
			years = append(years, r.BirthYear)
		}
	}

	stats.UserTypes.Counts = categoryCounts(userTypes)
	stats.Genders.Counts = categoryCounts(genders)

	if lo, hi, ok := MinMax(years); ok {
		common, _ := Mode(years)
		stats.BirthYears.Available = true
		stats.BirthYears.Oldest = int(lo)
		stats.BirthYears.Youngest = int(hi)
		stats.BirthYears.MostCommon = int(common)
	}

	return stats
}

func categoryCounts(values []string) []CategoryCount {
	counts := ValueCounts(values)
	out := make([]CategoryCount, len(counts))
	for i, c := range counts {
		out[i] = CategoryCount{Category: c.Value, Count: c.Count}
	}
	return out
}

// Timed runs one reporter, records its computation time in metrics (which
// may be nil) and returns the result with the elapsed time.
func Timed[T any](ctx context.Context, metrics *infrastructure.AnalyticsMetrics, report string, t *TripTable, compute func(*TripTable) T) (T, time.Duration) {
	_, span := otel.Tracer(tracerName).Start(ctx, "dataprocessing.Report",
		trace.WithAttributes(attribute.String("report", report), attribute.Int("rows", t.Len())))
	defer span.End()

	start := time.Now()
	result := compute(t)
	elapsed := time.Since(start)

	infrastructure.RecordReport(ctx, metrics, report, elapsed)
	return result, elapsed
}

// Summarize runs the four reporters over t. They share nothing but the
// read-only table.
func Summarize(ctx context.Context, t *TripTable, metrics *infrastructure.AnalyticsMetrics) Summary {
	s := Summary{Elapsed: make(map[string]time.Duration, 4)}
	s.Time, s.Elapsed[ReportTime] = Timed(ctx, metrics, ReportTime, t, ComputeTimeStats)
	s.Station, s.Elapsed[ReportStation] = Timed(ctx, metrics, ReportStation, t, ComputeStationStats)
	s.Duration, s.Elapsed[ReportDuration] = Timed(ctx, metrics, ReportDuration, t, ComputeDurationStats)
	s.User, s.Elapsed[ReportUser] = Timed(ctx, metrics, ReportUser, t, ComputeUserStats)
	return s
}
