package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/Jtofah/pdsnd-github/internal/errors"
)

var (
	// ErrSourceNotFound is the cause when a dataset file cannot be opened
	ErrSourceNotFound = errors.New("source not found")
	// ErrMissingColumn is the cause when a required column is absent
	ErrMissingColumn = errors.New("missing required column")
)

// Column names as they appear in the dataset headers
const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColTripDuration = "Trip Duration"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

// timestampLayouts are tried in order when parsing Start Time and End Time
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// ParseStats describes how many data rows a parse consumed and dropped
type ParseStats struct {
	Rows    int // data rows below the header
	Skipped int // rows dropped for a missing or malformed start time
	// FirstSkippedRow is the 1-based row number (header is row 1) of the
	// first dropped row, 0 if none
	FirstSkippedRow int
}

// columnIndex maps each known column to its position, -1 when absent
type columnIndex struct {
	startTime, endTime       int
	startStation, endStation int
	duration                 int
	userType, gender         int
	birthYear                int
}

// ReadTripFile reads a .csv or .xlsx dataset into an unfiltered TripTable.
// A file that cannot be opened yields a NOT_FOUND AppError caused by
// ErrSourceNotFound; content problems yield PARSING AppErrors.
func ReadTripFile(path string) (*TripTable, ParseStats, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		rows, err = readCSVFile(path)
	}
	if err != nil {
		return nil, ParseStats{}, err
	}

	return ParseTrips(rows)
}

func sourceNotFound(path string, cause error) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("dataset %s", filepath.Base(path)),
		fmt.Errorf("%w: %w", ErrSourceNotFound, cause)).WithContext("path", path)
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceNotFound(path, err)
	}
	defer f.Close()

	rows, err := readCSVRows(f)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV rows", err).WithContext("path", path)
	}
	return rows, nil
}

// readCSVRows reads all records, tolerating a UTF-8 BOM and ragged rows
func readCSVRows(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// readXLSXRows reads the first sheet of a workbook
func readXLSXRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, sourceNotFound(path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet rows", err).
			WithContext("path", path).WithContext("sheet", sheets[0])
	}
	return rows, nil
}

// mapColumns locates the known columns in a header row. Names are matched
// case-insensitively; unnamed columns such as a leading row index are ignored.
func mapColumns(header []string) (columnIndex, Schema, error) {
	idx := columnIndex{-1, -1, -1, -1, -1, -1, -1, -1}

	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case strings.ToLower(ColStartTime):
			idx.startTime = i
		case strings.ToLower(ColEndTime):
			idx.endTime = i
		case strings.ToLower(ColStartStation):
			idx.startStation = i
		case strings.ToLower(ColEndStation):
			idx.endStation = i
		case strings.ToLower(ColTripDuration):
			idx.duration = i
		case strings.ToLower(ColUserType):
			idx.userType = i
		case strings.ToLower(ColGender):
			idx.gender = i
		case strings.ToLower(ColBirthYear):
			idx.birthYear = i
		}
	}

	required := []struct {
		name string
		pos  int
	}{
		{ColStartTime, idx.startTime},
		{ColStartStation, idx.startStation},
		{ColEndStation, idx.endStation},
		{ColTripDuration, idx.duration},
	}
	for _, col := range required {
		if col.pos < 0 {
			return idx, Schema{}, apperrors.NewParsingError(
				fmt.Sprintf("required column %q not found", col.name), ErrMissingColumn).
				WithContext("column", col.name)
		}
	}

	schema := Schema{
		HasEndTime:   idx.endTime >= 0,
		HasUserType:  idx.userType >= 0,
		HasGender:    idx.gender >= 0,
		HasBirthYear: idx.birthYear >= 0,
	}
	return idx, schema, nil
}

// ParseTrips converts raw rows (header first) into a TripTable. Rows whose
// start time is empty or unparsable are dropped and counted in ParseStats.
func ParseTrips(rows [][]string) (*TripTable, ParseStats, error) {
	if len(rows) == 0 {
		return nil, ParseStats{}, apperrors.NewParsingError("dataset has no header row", ErrMissingColumn)
	}

	idx, schema, err := mapColumns(rows[0])
	if err != nil {
		return nil, ParseStats{}, err
	}

	stats := ParseStats{}
	records := make([]TripRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		stats.Rows++

		start, err := parseTimestamp(cell(row, idx.startTime))
		if err != nil {
			stats.Skipped++
			if stats.FirstSkippedRow == 0 {
				stats.FirstSkippedRow = i + 2
			}
			continue
		}

		rec := TripRecord{
			StartTime:    start,
			StartStation: cell(row, idx.startStation),
			EndStation:   cell(row, idx.endStation),
			UserType:     cell(row, idx.userType),
			Gender:       cell(row, idx.gender),
		}
		if end, err := parseTimestamp(cell(row, idx.endTime)); err == nil {
			rec.EndTime = end
		}
		if d, ok := parseNumber(cell(row, idx.duration)); ok && d >= 0 {
			rec.Duration, rec.HasDuration = d, true
		}
		if y, ok := parseNumber(cell(row, idx.birthYear)); ok {
			rec.BirthYear, rec.HasBirthYear = y, true
		}

		records = append(records, rec)
	}

	return NewTripTable(schema, records), stats, nil
}

// cell returns the trimmed value at pos, or "" when the column is absent
func cell(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseNumber parses a finite float; empty and NaN cells are not numbers
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
