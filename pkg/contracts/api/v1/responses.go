package api

import "time"

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// CitiesResponse lists the cities that can be analyzed
type CitiesResponse struct {
	Cities   []string          `json:"cities"`
	Datasets []DatasetResponse `json:"datasets"`
}

// DatasetResponse tells whether a city's dataset file is present
type DatasetResponse struct {
	City      string     `json:"city"`
	File      string     `json:"file"`
	Available bool       `json:"available"`
	SizeBytes int64      `json:"size_bytes,omitempty"`
	Modified  *time.Time `json:"modified,omitempty"`
}

// SelectionResponse echoes the applied selection and its row counts
type SelectionResponse struct {
	City    string `json:"city"`
	Month   string `json:"month"`
	Day     string `json:"day"`
	Total   int    `json:"total_rows"`
	Skipped int    `json:"skipped_rows"`
	Matched int    `json:"matched_rows"`
}

// TimeStatsResponse holds the most frequent times of travel
type TimeStatsResponse struct {
	Available bool   `json:"available"`
	Month     string `json:"month,omitempty"`
	Day       string `json:"day,omitempty"`
	Hour      int    `json:"hour"`
}

// StationStatsResponse holds the most popular stations and trip
type StationStatsResponse struct {
	Available    bool   `json:"available"`
	StartStation string `json:"start_station,omitempty"`
	EndStation   string `json:"end_station,omitempty"`
	Trip         string `json:"trip,omitempty"`
}

// DurationStatsResponse holds trip duration aggregates, in seconds and as
// "D days, H hours, M minutes, S seconds" text
type DurationStatsResponse struct {
	Available    bool    `json:"available"`
	Count        int     `json:"count"`
	TotalSeconds float64 `json:"total_seconds"`
	MeanSeconds  float64 `json:"mean_seconds"`
	MaxSeconds   float64 `json:"max_seconds"`
	MinSeconds   float64 `json:"min_seconds"`
	Total        string  `json:"total,omitempty"`
	Mean         string  `json:"mean,omitempty"`
	Max          string  `json:"max,omitempty"`
	Min          string  `json:"min,omitempty"`
}

// CategoryCount is one category and its number of trips
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryStatsResponse counts one categorical column. Present is false when
// the dataset has no such column.
type CategoryStatsResponse struct {
	Present bool            `json:"present"`
	Counts  []CategoryCount `json:"counts"`
}

// BirthYearResponse summarizes the Birth Year column
type BirthYearResponse struct {
	Present    bool `json:"present"`
	Available  bool `json:"available"`
	Oldest     int  `json:"oldest,omitempty"`
	Youngest   int  `json:"youngest,omitempty"`
	MostCommon int  `json:"most_common,omitempty"`
}

// UserStatsResponse groups the demographic reports
type UserStatsResponse struct {
	UserTypes  CategoryStatsResponse `json:"user_types"`
	Genders    CategoryStatsResponse `json:"genders"`
	BirthYears BirthYearResponse     `json:"birth_years"`
}

// StatsResponse is the result of all four reports over one selection
type StatsResponse struct {
	Selection SelectionResponse     `json:"selection"`
	Time      TimeStatsResponse     `json:"time"`
	Station   StationStatsResponse  `json:"station"`
	Duration  DurationStatsResponse `json:"duration"`
	User      UserStatsResponse     `json:"user"`
	TimingsMS map[string]float64    `json:"timings_ms"`
	TraceID   string                `json:"trace_id,omitempty"`
}

// TripRow is one raw trip record. Optional fields are omitted when the
// dataset does not carry them or the value is missing.
type TripRow struct {
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time,omitempty"`
	TripDuration *float64 `json:"trip_duration,omitempty"`
	StartStation string   `json:"start_station"`
	EndStation   string   `json:"end_station"`
	UserType     string   `json:"user_type,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	BirthYear    *float64 `json:"birth_year,omitempty"`
}

// RowsResponse is one window of raw trips
type RowsResponse struct {
	Selection SelectionResponse `json:"selection"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
	Rows      []TripRow         `json:"rows"`
	HasMore   bool              `json:"has_more"`
}
