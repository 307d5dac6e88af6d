package exporter

import (
	"strconv"
	"time"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
)

// timeLayout is also the first layout the trip parser accepts
const timeLayout = "2006-01-02 15:04:05"

// formatFloat formats a number with the shortest exact representation
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatOptional leaves the cell empty when the value is absent
func formatOptional(f float64, ok bool) string {
	if !ok {
		return ""
	}
	return formatFloat(f)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// TripHeaders returns the column names written for schema, in dataset order
func TripHeaders(schema dataprocessing.Schema) []string {
	headers := []string{dataprocessing.ColStartTime}
	if schema.HasEndTime {
		headers = append(headers, dataprocessing.ColEndTime)
	}
	headers = append(headers,
		dataprocessing.ColTripDuration,
		dataprocessing.ColStartStation,
		dataprocessing.ColEndStation)
	if schema.HasUserType {
		headers = append(headers, dataprocessing.ColUserType)
	}
	if schema.HasGender {
		headers = append(headers, dataprocessing.ColGender)
	}
	if schema.HasBirthYear {
		headers = append(headers, dataprocessing.ColBirthYear)
	}
	return headers
}

// TripRow formats r into the cells matching TripHeaders(schema)
func TripRow(schema dataprocessing.Schema, r dataprocessing.TripRecord) []string {
	row := []string{formatTime(r.StartTime)}
	if schema.HasEndTime {
		row = append(row, formatTime(r.EndTime))
	}
	row = append(row, formatOptional(r.Duration, r.HasDuration), r.StartStation, r.EndStation)
	if schema.HasUserType {
		row = append(row, r.UserType)
	}
	if schema.HasGender {
		row = append(row, r.Gender)
	}
	if schema.HasBirthYear {
		row = append(row, formatOptional(r.BirthYear, r.HasBirthYear))
	}
	return row
}
