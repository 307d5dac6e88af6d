package dataprocessing

import (
	"time"
)

// TripSeparator joins start and end station names into a trip label
const TripSeparator = " --> "

// TripRecord is one bikeshare ride. Month and Weekday are derived from
// StartTime when the record enters a TripTable and are not changed afterwards.
type TripRecord struct {
	StartTime    time.Time
	EndTime      time.Time // zero when the source has no End Time value
	StartStation string
	EndStation   string

	// Duration is the trip length in seconds; only meaningful if HasDuration
	Duration    float64
	HasDuration bool

	// Optional demographic fields, see Schema
	UserType     string
	Gender       string
	BirthYear    float64
	HasBirthYear bool

	// Derived calendar columns
	Month   int
	Weekday time.Weekday
}

// Hour returns the hour of day (0-23) the trip started
func (r TripRecord) Hour() int {
	return r.StartTime.Hour()
}

// DayName returns the title-cased day-of-week name, e.g. "Monday"
func (r TripRecord) DayName() string {
	return r.Weekday.String()
}

// Trip returns the "start --> end" station pair label
func (r TripRecord) Trip() string {
	return r.StartStation + TripSeparator + r.EndStation
}

// Schema flags which optional columns the source dataset carries.
// It is fixed once when the header is read.
type Schema struct {
	HasEndTime   bool
	HasUserType  bool
	HasGender    bool
	HasBirthYear bool
}

// TripTable is an ordered, read-only collection of trip records sharing one
// Schema. Filtering returns new tables and never modifies the receiver.
type TripTable struct {
	schema  Schema
	records []TripRecord
}

// NewTripTable copies records into a new table and derives the calendar
// columns of every record from its start time.
func NewTripTable(schema Schema, records []TripRecord) *TripTable {
	out := make([]TripRecord, len(records))
	for i, r := range records {
		r.Month = int(r.StartTime.Month())
		r.Weekday = r.StartTime.Weekday()
		out[i] = r
	}
	return &TripTable{schema: schema, records: out}
}

// Schema returns the optional-column flags of the table
func (t *TripTable) Schema() Schema {
	return t.schema
}

// Len returns the number of records
func (t *TripTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Empty reports whether the table has no records
func (t *TripTable) Empty() bool {
	return t.Len() == 0
}

// Records returns a copy of the records in table order
func (t *TripTable) Records() []TripRecord {
	if t == nil {
		return nil
	}
	out := make([]TripRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Window returns a copy of records [from, from+n), clipped to the table.
// Out of range windows return an empty, non-nil slice.
func (t *TripTable) Window(from, n int) []TripRecord {
	size := t.Len()
	if from < 0 {
		from = 0
	}
	if from >= size || n <= 0 {
		return []TripRecord{}
	}
	to := from + n
	if to > size {
		to = size
	}
	out := make([]TripRecord, to-from)
	copy(out, t.records[from:to])
	return out
}

// where returns a new table with the records matching keep
func (t *TripTable) where(keep func(TripRecord) bool) *TripTable {
	out := make([]TripRecord, 0, len(t.records))
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &TripTable{schema: t.schema, records: out}
}
