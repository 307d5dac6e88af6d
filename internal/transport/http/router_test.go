package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Jtofah/pdsnd-github/internal/config"
	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	api "github.com/Jtofah/pdsnd-github/pkg/contracts/api/v1"
)

const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
0,2017-01-01 09:07:57,2017-01-01 09:08:57,60,A,B,Subscriber,Male,1992.0
1,2017-01-02 09:00:00,2017-01-02 09:02:00,120,A,B,Customer,Female,1985.0
2,2017-01-06 17:00:00,2017-01-06 17:05:00,0,C,D,Subscriber,,
3,not-a-date,2017-01-06 17:05:00,10,C,D,Subscriber,,
4,2017-03-03 08:00:00,2017-03-03 09:01:01,3661,D,A,Subscriber,Male,1970.0
5,2017-03-10 08:30:00,2017-03-11 08:30:00,86400,A,C,Customer,Female,1992.0
6,2017-05-05 12:00:00,2017-05-05 12:00:05,5,A,B,Subscriber,Male,1992.0
`

const washingtonCSV = `Start Time,End Time,Trip Duration,Start Station,End Station,User Type
2017-03-11 10:00:00,2017-03-11 10:08:09,489.066,Lincoln Memorial,Jefferson Dr,Subscriber
`

const brokenCSV = "Start Time,Start Station,End Station\n2017-01-01 00:00:00,A,B\n"

type testServer struct {
	handler http.Handler
	reader  *sdkmetric.ManualReader
	logs    *bytes.Buffer
}

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) *testServer {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"chicago.csv":    chicagoCSV,
		"washington.csv": washingtonCSV,
		"broken.csv":     brokenCSV,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.CreateAnalyticsMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logger := infrastructure.NewLogger(logs, "debug")

	catalog := dataprocessing.NewCatalog(map[string]string{
		"chicago":       "chicago.csv",
		"new york city": "new_york_city.csv",
		"washington":    "washington.csv",
		"broken":        "broken.csv",
	})
	loader := dataprocessing.NewLoader(catalog, dir, logger, dataprocessing.WithMetrics(metrics))

	server := config.Default().Server
	server.RateLimit.Enabled = false
	if mutate != nil {
		mutate(&server)
	}

	handler := NewRouter(RouterDeps{
		Service: NewStatsService(loader),
		Logger:  logger,
		Server:  server,
		Metrics: metrics,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	})
	return &testServer{handler: handler, reader: reader, logs: logs}
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthAndCities(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var health api.HealthResponse
	decode(t, rec, &health)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = srv.get(t, "/api/v1/cities")
	require.Equal(t, http.StatusOK, rec.Code)
	var cities api.CitiesResponse
	decode(t, rec, &cities)
	assert.Equal(t, []string{"broken", "chicago", "new york city", "washington"}, cities.Cities)
	require.Len(t, cities.Datasets, 4)
	assert.True(t, cities.Datasets[1].Available)
	assert.Equal(t, int64(len(chicagoCSV)), cities.Datasets[1].SizeBytes)
	assert.False(t, cities.Datasets[2].Available, "new_york_city.csv is not in the data dir")
	assert.Nil(t, cities.Datasets[2].Modified)

	rec = srv.get(t, "/metrics")
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.get(t, "/api/v1/stats?city=Chicago")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.StatsResponse
	decode(t, rec, &resp)

	assert.Equal(t, api.SelectionResponse{
		City: "chicago", Month: "all", Day: "all", Total: 7, Skipped: 1, Matched: 6,
	}, resp.Selection)

	assert.True(t, resp.Time.Available)
	assert.Equal(t, "January", resp.Time.Month)
	assert.Equal(t, "Friday", resp.Time.Day)
	assert.Equal(t, 9, resp.Time.Hour)

	assert.Equal(t, "A", resp.Station.StartStation)
	assert.Equal(t, "B", resp.Station.EndStation)
	assert.Equal(t, "A --> B", resp.Station.Trip)

	assert.Equal(t, 6, resp.Duration.Count)
	assert.Equal(t, 90246.0, resp.Duration.TotalSeconds)
	assert.Equal(t, "1 days, 1 hours, 4 minutes, 6 seconds", resp.Duration.Total)
	assert.Equal(t, "0 days, 0 hours, 0 minutes, 0 seconds", resp.Duration.Min)

	assert.Equal(t, []api.CategoryCount{{Category: "Subscriber", Count: 4}, {Category: "Customer", Count: 2}}, resp.User.UserTypes.Counts)
	assert.Equal(t, api.BirthYearResponse{Present: true, Available: true, Oldest: 1970, Youngest: 1992, MostCommon: 1992}, resp.User.BirthYears)

	assert.Len(t, resp.TimingsMS, 4)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.TraceID)
}

func TestStats_FiltersAndMissingColumns(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.get(t, "/api/v1/stats?city=chicago&month=MARCH&day=friday")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.StatsResponse
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.Selection.Matched)
	assert.Equal(t, "March", resp.Time.Month)

	rec = srv.get(t, "/api/v1/stats?city=chicago&month=june")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = api.StatsResponse{}
	decode(t, rec, &resp)
	assert.Equal(t, 0, resp.Selection.Matched)
	assert.False(t, resp.Time.Available)
	assert.False(t, resp.Station.Available)
	assert.False(t, resp.Duration.Available)
	assert.True(t, resp.User.UserTypes.Present)
	assert.Empty(t, resp.User.UserTypes.Counts)

	rec = srv.get(t, "/api/v1/stats?city=washington")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = api.StatsResponse{}
	decode(t, rec, &resp)
	assert.False(t, resp.User.Genders.Present)
	assert.False(t, resp.User.BirthYears.Present)
	assert.True(t, resp.User.UserTypes.Present)
}

func TestStats_Errors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name      string
		target    string
		status    int
		errorCode string
	}{
		{"missing city", "/api/v1/stats", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"bad month", "/api/v1/stats?city=chicago&month=july", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"bad day", "/api/v1/stats?city=chicago&day=someday", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown city", "/api/v1/stats?city=paris", http.StatusBadRequest, "VALIDATION"},
		{"missing file", "/api/v1/stats?city=new+york+city", http.StatusNotFound, "NOT_FOUND"},
		{"missing column", "/api/v1/stats?city=broken", http.StatusUnprocessableEntity, "PARSING"},
		{"bad page", "/api/v1/rows?city=chicago&page=two", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"negative page", "/api/v1/rows?city=chicago&page=-1", http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown route", "/api/v1/nothing", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.get(t, tt.target)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var problem map[string]interface{}
			decode(t, rec, &problem)
			assert.Equal(t, float64(tt.status), problem["status"])
			assert.Equal(t, tt.errorCode, problem["error_code"])
			assert.Equal(t, rec.Header().Get("X-Request-ID"), problem["trace_id"])
		})
	}
}

func TestRows(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.get(t, "/api/v1/rows?city=chicago")
	require.Equal(t, http.StatusOK, rec.Code)
	var first api.RowsResponse
	decode(t, rec, &first)
	assert.Equal(t, 0, first.Page)
	assert.Equal(t, 5, first.PageSize)
	require.Len(t, first.Rows, 5)
	assert.True(t, first.HasMore)

	row := first.Rows[0]
	assert.Equal(t, "2017-01-01 09:07:57", row.StartTime)
	assert.Equal(t, "2017-01-01 09:08:57", row.EndTime)
	require.NotNil(t, row.TripDuration)
	assert.Equal(t, 60.0, *row.TripDuration)
	require.NotNil(t, row.BirthYear)
	assert.Equal(t, 1992.0, *row.BirthYear)
	assert.Nil(t, first.Rows[2].BirthYear)

	rec = srv.get(t, "/api/v1/rows?city=chicago&page=1")
	var second api.RowsResponse
	decode(t, rec, &second)
	require.Len(t, second.Rows, 1)
	assert.False(t, second.HasMore)

	rec = srv.get(t, "/api/v1/rows?city=chicago&page=9")
	var past api.RowsResponse
	decode(t, rec, &past)
	assert.NotNil(t, past.Rows)
	assert.Empty(t, past.Rows)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(s *config.ServerConfig) {
		s.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	})

	assert.Equal(t, http.StatusOK, srv.get(t, "/api/v1/cities").Code)
	assert.Equal(t, http.StatusTooManyRequests, srv.get(t, "/api/v1/cities").Code)
	assert.Equal(t, http.StatusOK, srv.get(t, "/healthz").Code, "health is not rate limited")
}

func TestMetricsRecorded(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.get(t, "/api/v1/stats?city=chicago")
	srv.get(t, "/api/v1/stats?city=paris")

	var rm metricdata.ResourceMetrics
	require.NoError(t, srv.reader.Collect(context.Background(), &rm))

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
		}
	}
	for _, name := range []string{"http_requests_total", "dataset_loads_total", "trips_skipped_total", "report_duration_seconds"} {
		assert.True(t, found[name], name)
	}
}

func TestStatsService_ConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(chicagoCSV), 0o644))
	service := NewStatsService(dataprocessing.NewLoader(dataprocessing.DefaultCatalog(), dir, infrastructure.NewLogger(&bytes.Buffer{}, "error")))

	var wg sync.WaitGroup
	results := make([]*dataprocessing.LoadResult, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.Load(context.Background(), api.SelectionRequest{City: "chicago", Month: "january", Day: "all"})
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, 3, results[i].Table.Len())
	}
}

func TestStatsService_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(chicagoCSV), 0o644))
	service := NewStatsService(dataprocessing.NewLoader(dataprocessing.DefaultCatalog(), dir, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Load(ctx, api.SelectionRequest{City: "chicago", Month: "all", Day: "all"})
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
