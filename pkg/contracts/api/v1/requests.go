// Package api contains the request and response contracts of the bikeshare
// HTTP API. Version v1 represents the current stable API version.
package api

import "strings"

// SelectionRequest picks a city dataset and optional month/day filters.
// Empty Month and Day mean "all".
type SelectionRequest struct {
	City  string `json:"city" query:"city" validate:"required,max=64"`
	Month string `json:"month" query:"month" validate:"omitempty,oneof=all january february march april may june"`
	Day   string `json:"day" query:"day" validate:"omitempty,oneof=all monday tuesday wednesday thursday friday saturday sunday"`
}

// Normalize lowercases and trims the fields and fills in "all" defaults
func (r *SelectionRequest) Normalize() {
	r.City = strings.Join(strings.Fields(strings.ToLower(r.City)), " ")
	r.Month = strings.ToLower(strings.TrimSpace(r.Month))
	r.Day = strings.ToLower(strings.TrimSpace(r.Day))
	if r.Month == "" {
		r.Month = "all"
	}
	if r.Day == "" {
		r.Day = "all"
	}
}

// StatsRequest asks for all four reports over a selection
type StatsRequest struct {
	SelectionRequest
}

// RowsRequest asks for one 5-row window of raw trips. Page is zero based.
type RowsRequest struct {
	SelectionRequest
	Page int `json:"page" query:"page" validate:"min=0,max=1000000"`
}
