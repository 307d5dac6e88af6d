package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/Jtofah/pdsnd-github/internal/errors"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
)

// ErrUnknownCity is the cause when a city is not in the catalog
var ErrUnknownCity = errors.New("unknown city")

// Catalog is an immutable mapping of city names to dataset file names.
// City names are matched case-insensitively.
type Catalog struct {
	files map[string]string
}

// NewCatalog copies entries into a Catalog, normalizing city names
func NewCatalog(entries map[string]string) Catalog {
	files := make(map[string]string, len(entries))
	for city, file := range entries {
		files[normalizeCity(city)] = file
	}
	return Catalog{files: files}
}

// DefaultCatalog returns the three bundled cities
func DefaultCatalog() Catalog {
	return NewCatalog(map[string]string{
		"chicago":       "chicago.csv",
		"new york city": "new_york_city.csv",
		"washington":    "washington.csv",
	})
}

// Lookup returns the dataset file for city
func (c Catalog) Lookup(city string) (string, bool) {
	file, ok := c.files[normalizeCity(city)]
	return file, ok
}

// Cities returns the catalog's city names in sorted order
func (c Catalog) Cities() []string {
	cities := make([]string, 0, len(c.files))
	for city := range c.files {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

func normalizeCity(city string) string {
	return strings.Join(strings.Fields(strings.ToLower(city)), " ")
}

// LoadResult is a loaded, derived and filtered dataset
type LoadResult struct {
	City     string
	Path     string
	Criteria Criteria
	Total    int // data rows in the source
	Skipped  int // rows dropped for a malformed start time
	Table    *TripTable
}

// Loader reads city datasets from a data directory
type Loader struct {
	catalog Catalog
	dataDir string
	logger  *slog.Logger
	metrics *infrastructure.AnalyticsMetrics
	tracer  trace.Tracer
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithMetrics records load counts and timings on m
func WithMetrics(m *infrastructure.AnalyticsMetrics) LoaderOption {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader creates a Loader over catalog with files under dataDir
func NewLoader(catalog Catalog, dataDir string, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		catalog: catalog,
		dataDir: dataDir,
		logger:  logger.With("component", "loader"),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Catalog returns the loader's city catalog
func (l *Loader) Catalog() Catalog {
	return l.catalog
}

// DataDir returns the directory relative catalog files are resolved against
func (l *Loader) DataDir() string {
	return l.dataDir
}

// Load reads the city's dataset, derives the calendar columns and applies the
// criteria. An empty result is not an error.
//
// Errors are AppErrors: VALIDATION for an unknown city (ErrUnknownCity),
// NOT_FOUND when the file cannot be opened (ErrSourceNotFound), and PARSING
// for unreadable content or a missing required column (ErrMissingColumn).
// None of them leave the loader unusable.
func (l *Loader) Load(ctx context.Context, city string, criteria Criteria) (result *LoadResult, err error) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "dataprocessing.Load", trace.WithAttributes(
		attribute.String("city", city),
		attribute.String("month", criteria.Month.String()),
		attribute.String("day", criteria.Day.String()),
	))
	defer func() {
		kept, skipped := 0, 0
		if result != nil {
			kept, skipped = result.Table.Len(), result.Skipped
		}
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		infrastructure.RecordDatasetLoad(ctx, l.metrics, normalizeCity(city), kept, skipped, time.Since(start), err)
		span.End()
	}()

	file, ok := l.catalog.Lookup(city)
	if !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown city %q, expected one of %s", city, strings.Join(l.catalog.Cities(), ", ")),
			ErrUnknownCity)
	}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.dataDir, file)
	}

	table, stats, err := ReadTripFile(path)
	if err != nil {
		l.logger.WarnContext(ctx, "Dataset load failed",
			slog.String("city", city),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	if stats.Skipped > 0 {
		l.logger.WarnContext(ctx, "Dropped rows with malformed start time",
			slog.String("path", path),
			slog.Int("skipped", stats.Skipped),
			slog.Int("first_row", stats.FirstSkippedRow))
	}

	filtered := table.Filter(criteria)

	l.logger.InfoContext(ctx, "Filtering by",
		slog.String("city", normalizeCity(city)),
		slog.String("month", criteria.Month.String()),
		slog.String("day", criteria.Day.String()),
		slog.Int("rows", stats.Rows),
		slog.Int("skipped", stats.Skipped),
		slog.Int("kept", filtered.Len()),
		slog.Duration("elapsed", time.Since(start)))

	return &LoadResult{
		City:     normalizeCity(city),
		Path:     path,
		Criteria: criteria,
		Total:    stats.Rows,
		Skipped:  stats.Skipped,
		Table:    filtered,
	}, nil
}
