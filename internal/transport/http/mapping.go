package http

import (
	"time"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/files"
	api "github.com/Jtofah/pdsnd-github/pkg/contracts/api/v1"
)

const rowTimeLayout = "2006-01-02 15:04:05"

func selectionResponse(r *dataprocessing.LoadResult) api.SelectionResponse {
	return api.SelectionResponse{
		City:    r.City,
		Month:   r.Criteria.Month.String(),
		Day:     r.Criteria.Day.String(),
		Total:   r.Total,
		Skipped: r.Skipped,
		Matched: r.Table.Len(),
	}
}

func statsResponse(r *dataprocessing.LoadResult, s dataprocessing.Summary, traceID string) api.StatsResponse {
	resp := api.StatsResponse{
		Selection: selectionResponse(r),
		Time:      api.TimeStatsResponse{Available: s.Time.Available},
		Station: api.StationStatsResponse{
			Available:    s.Station.Available,
			StartStation: s.Station.StartStation,
			EndStation:   s.Station.EndStation,
			Trip:         s.Station.Trip,
		},
		Duration: api.DurationStatsResponse{Available: s.Duration.Available},
		User: api.UserStatsResponse{
			UserTypes: categoryResponse(s.User.UserTypes),
			Genders:   categoryResponse(s.User.Genders),
			BirthYears: api.BirthYearResponse{
				Present:    s.User.BirthYears.Present,
				Available:  s.User.BirthYears.Available,
				Oldest:     s.User.BirthYears.Oldest,
				Youngest:   s.User.BirthYears.Youngest,
				MostCommon: s.User.BirthYears.MostCommon,
			},
		},
		TimingsMS: make(map[string]float64, len(s.Elapsed)),
		TraceID:   traceID,
	}

	if s.Time.Available {
		resp.Time.Month = s.Time.MonthName()
		resp.Time.Day = s.Time.Weekday.String()
		resp.Time.Hour = s.Time.Hour
	}

	if d := s.Duration; d.Available {
		resp.Duration = api.DurationStatsResponse{
			Available:    true,
			Count:        d.Count,
			TotalSeconds: d.Total,
			MeanSeconds:  d.Mean,
			MaxSeconds:   d.Max,
			MinSeconds:   d.Min,
			Total:        dataprocessing.FormatDuration(d.Total),
			Mean:         dataprocessing.FormatDuration(d.Mean),
			Max:          dataprocessing.FormatDuration(d.Max),
			Min:          dataprocessing.FormatDuration(d.Min),
		}
	}

	for name, elapsed := range s.Elapsed {
		resp.TimingsMS[name] = float64(elapsed) / float64(time.Millisecond)
	}
	return resp
}

func categoryResponse(c dataprocessing.CategoryStats) api.CategoryStatsResponse {
	counts := make([]api.CategoryCount, 0, len(c.Counts))
	for _, cc := range c.Counts {
		counts = append(counts, api.CategoryCount{Category: cc.Category, Count: cc.Count})
	}
	return api.CategoryStatsResponse{Present: c.Present, Counts: counts}
}

func tripRows(schema dataprocessing.Schema, records []dataprocessing.TripRecord) []api.TripRow {
	rows := make([]api.TripRow, 0, len(records))
	for _, r := range records {
		row := api.TripRow{
			StartTime:    r.StartTime.Format(rowTimeLayout),
			StartStation: r.StartStation,
			EndStation:   r.EndStation,
		}
		if schema.HasEndTime && !r.EndTime.IsZero() {
			row.EndTime = r.EndTime.Format(rowTimeLayout)
		}
		if r.HasDuration {
			d := r.Duration
			row.TripDuration = &d
		}
		if schema.HasUserType {
			row.UserType = r.UserType
		}
		if schema.HasGender {
			row.Gender = r.Gender
		}
		if schema.HasBirthYear && r.HasBirthYear {
			y := r.BirthYear
			row.BirthYear = &y
		}
		rows = append(rows, row)
	}
	return rows
}

func datasetResponses(datasets []files.Dataset) []api.DatasetResponse {
	out := make([]api.DatasetResponse, 0, len(datasets))
	for _, ds := range datasets {
		resp := api.DatasetResponse{City: ds.City, File: ds.File, Available: ds.Exists}
		if ds.Exists {
			modified := ds.ModTime.UTC()
			resp.SizeBytes = ds.Size
			resp.Modified = &modified
		}
		out = append(out, resp)
	}
	return out
}
