package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	apperrors "github.com/Jtofah/pdsnd-github/internal/errors"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
)

// Sheet names used in workbooks
const (
	TripsSheet   = "Trips"
	SummarySheet = "Summary"
)

// SummaryHeaders are the columns of an exported summary
var SummaryHeaders = []string{"Report", "Metric", "Value"}

// TripExporter writes selections to .csv or .xlsx files
type TripExporter struct {
	logger *slog.Logger
}

// NewTripExporter creates an exporter logging through logger
func NewTripExporter(logger *slog.Logger) *TripExporter {
	return &TripExporter{logger: infrastructure.WithComponent(logger, "exporter")}
}

// format returns "csv" or "xlsx" for path, or a validation error
func format(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", apperrors.NewValidationError(
			fmt.Sprintf("unsupported export format %q: use .csv or .xlsx", ext), nil).
			WithContext("path", path)
	}
}

// ExportTrips writes every record of t to path and returns the record count.
// The context is checked between records so large exports can be cancelled.
func (e *TripExporter) ExportTrips(ctx context.Context, path string, t *dataprocessing.TripTable) (int, error) {
	kind, err := format(path)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	schema := t.Schema()
	headers := TripHeaders(schema)
	rows := func(yield func([]string) error) error {
		for _, r := range t.Records() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := yield(TripRow(schema, r)); err != nil {
				return err
			}
		}
		return nil
	}

	var n int
	switch kind {
	case "xlsx":
		n, err = writeWorkbook(path, TripsSheet, headers, rows)
	default:
		n, err = writeStream(path, headers, rows)
	}
	if err != nil {
		os.Remove(path)
		e.logger.ErrorContext(ctx, "Trip export failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("export trips to %s: %w", path, err)
	}

	e.logger.InfoContext(ctx, "Trips exported",
		slog.String("path", path),
		slog.String("format", kind),
		slog.Int("records", n),
		slog.Duration("duration", time.Since(start)))
	return n, nil
}

// ExportSummary writes the four reports of s as Report/Metric/Value rows
func (e *TripExporter) ExportSummary(ctx context.Context, path string, s dataprocessing.Summary) error {
	kind, err := format(path)
	if err != nil {
		return err
	}

	lines := SummaryRows(s)
	rows := func(yield func([]string) error) error {
		for _, line := range lines {
			if err := yield(line); err != nil {
				return err
			}
		}
		return nil
	}

	switch kind {
	case "xlsx":
		_, err = writeWorkbook(path, SummarySheet, SummaryHeaders, rows)
	default:
		_, err = writeStream(path, SummaryHeaders, rows)
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("export summary to %s: %w", path, err)
	}

	e.logger.InfoContext(ctx, "Summary exported",
		slog.String("path", path),
		slog.Int("rows", len(lines)))
	return nil
}

// rowSource calls yield once per row and stops at the first error
type rowSource func(yield func([]string) error) error

func writeStream(path string, headers []string, rows rowSource) (int, error) {
	sw, err := CreateStreamWriter(path, headers, true)
	if err != nil {
		return 0, err
	}
	if err := rows(sw.WriteRecord); err != nil {
		sw.Close()
		return 0, err
	}
	return sw.Count(), sw.Close()
}

func writeWorkbook(path, sheet string, headers []string, rows rowSource) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet writer: %w", err)
	}

	line := 0
	write := func(cells []string) error {
		line++
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		return sw.SetRow(cell, values)
	}

	if err := write(headers); err != nil {
		return 0, fmt.Errorf("failed to write headers: %w", err)
	}
	if err := rows(write); err != nil {
		return 0, err
	}
	if err := sw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("failed to save workbook: %w", err)
	}
	return line - 1, nil
}

// Summary values for sections without data
const (
	NotAvailable = "not_available"
	NoData       = "no_data"
)

// SummaryRows flattens s into Report/Metric/Value rows. A report without data
// yields a single "available,false" row. A missing user column yields
// not_available and a present but empty one no_data.
func SummaryRows(s dataprocessing.Summary) [][]string {
	var rows [][]string
	add := func(report, metric, value string) {
		rows = append(rows, []string{report, metric, value})
	}
	unavailable := func(report string) {
		add(report, "available", "false")
	}

	if s.Time.Available {
		add(dataprocessing.ReportTime, "most_common_month", s.Time.MonthName())
		add(dataprocessing.ReportTime, "most_common_day", s.Time.Weekday.String())
		add(dataprocessing.ReportTime, "most_common_hour", strconv.Itoa(s.Time.Hour))
	} else {
		unavailable(dataprocessing.ReportTime)
	}
	if s.Station.Available {
		add(dataprocessing.ReportStation, "most_common_start_station", s.Station.StartStation)
		add(dataprocessing.ReportStation, "most_common_end_station", s.Station.EndStation)
		add(dataprocessing.ReportStation, "most_common_trip", s.Station.Trip)
	} else {
		unavailable(dataprocessing.ReportStation)
	}
	if s.Duration.Available {
		add(dataprocessing.ReportDuration, "total", dataprocessing.FormatDuration(s.Duration.Total))
		add(dataprocessing.ReportDuration, "mean", dataprocessing.FormatDuration(s.Duration.Mean))
		add(dataprocessing.ReportDuration, "max", dataprocessing.FormatDuration(s.Duration.Max))
		add(dataprocessing.ReportDuration, "min", dataprocessing.FormatDuration(s.Duration.Min))
	} else {
		unavailable(dataprocessing.ReportDuration)
	}

	categories := func(metric string, c dataprocessing.CategoryStats) {
		switch {
		case !c.Present:
			add(dataprocessing.ReportUser, metric, NotAvailable)
		case len(c.Counts) == 0:
			add(dataprocessing.ReportUser, metric, NoData)
		}
		for _, cc := range c.Counts {
			add(dataprocessing.ReportUser, metric+":"+cc.Category, strconv.Itoa(cc.Count))
		}
	}
	categories("user_type", s.User.UserTypes)
	categories("gender", s.User.Genders)

	switch b := s.User.BirthYears; {
	case !b.Present:
		add(dataprocessing.ReportUser, "birth_year", NotAvailable)
	case !b.Available:
		add(dataprocessing.ReportUser, "birth_year", NoData)
	default:
		add(dataprocessing.ReportUser, "oldest_birth_year", strconv.Itoa(b.Oldest))
		add(dataprocessing.ReportUser, "youngest_birth_year", strconv.Itoa(b.Youngest))
		add(dataprocessing.ReportUser, "most_common_birth_year", strconv.Itoa(b.MostCommon))
	}
	return rows
}
