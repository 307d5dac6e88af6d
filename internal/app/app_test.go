package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jtofah/pdsnd-github/internal/config"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	"github.com/Jtofah/pdsnd-github/internal/shared/testutil"
	api "github.com/Jtofah/pdsnd-github/pkg/contracts/api/v1"
)

const chicagoCSV = `Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
2017-01-01 09:07:57,2017-01-01 09:08:57,60,A,B,Subscriber,Male,1992.0
2017-01-02 17:00:00,2017-01-02 17:02:00,120,A,B,Customer,Female,1985.0
`

// testConfig returns a default configuration rooted in a temp directory
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "chicago.csv"), []byte(chicagoCSV), 0o644))

	cfg := config.Default()
	cfg.Data.Dir = dataDir
	cfg.Logging.FilePath = filepath.Join(dir, "logs", "bikeshare.log")
	cfg.Server.RateLimit.Enabled = false
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func testLogger() *slog.Logger {
	return infrastructure.NewLogger(io.Discard, "error")
}

// startServer builds a server on a random local port and stops it on cleanup
func startServer(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	a, err := NewServer(cfg, testLogger())
	require.NoError(t, err)
	a.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, a.Start(ctx, cancel))
	t.Cleanup(func() { _ = a.Stop(context.Background()) })
	return a
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricExporter = "none"

	a, err := New(cfg, testLogger(), CLIName)
	require.NoError(t, err)

	assert.Equal(t, cfg.Data.Dir, a.Paths.DataDir)
	assert.Equal(t, []string{"chicago", "new york city", "washington"}, a.Loader.Catalog().Cities())
	assert.NotNil(t, a.Metrics)
	assert.Nil(t, a.OTelProviders.PrometheusHTTP)
	assert.Nil(t, a.Server, "the terminal tool has no HTTP server")

	err = a.Start(context.Background(), func() {})
	assert.Error(t, err)
}

func TestNew_CustomCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Cities = map[string]string{"Boston": "boston.csv"}

	a, err := New(cfg, testLogger(), CLIName)
	require.NoError(t, err)
	assert.Equal(t, []string{"boston"}, a.Loader.Catalog().Cities())
}

func TestNew_LogsMissingDatasets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricExporter = "none"
	logger, logs := testutil.NewTestLogger(t)

	_, err := New(cfg, logger, CLIName)
	require.NoError(t, err)

	assert.Equal(t, 2, logs.CountMessage("Dataset file not found"))
	assert.True(t, logs.ContainsAttr("city", "washington"))
	assert.False(t, logs.ContainsAttr("city", "chicago"))
	testutil.AssertNoErrors(t, logs)
}

func TestNewServer_Serves(t *testing.T) {
	a := startServer(t, testConfig(t))
	base := "http://" + a.Addr()

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/api/v1/stats?city=chicago&month=january")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats api.StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 2, stats.Selection.Matched)
	assert.Equal(t, "A", stats.Station.StartStation)

	metrics, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
	body, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dataset_loads")
}

func TestStop(t *testing.T) {
	a := startServer(t, testConfig(t))
	addr := a.Addr()

	require.NoError(t, a.Stop(context.Background()))

	_, err := http.Get("http://" + addr + "/healthz")
	assert.Error(t, err, "server no longer accepts connections")
}

func TestStart_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a, err := NewServer(testConfig(t), testLogger())
	require.NoError(t, err)
	a.Server.Addr = ln.Addr().String()

	err = a.Start(context.Background(), func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
	assert.Empty(t, a.Addr())
}

func TestRun_ContextCancelled(t *testing.T) {
	a, err := NewServer(testConfig(t), testLogger())
	require.NoError(t, err)
	a.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not shut down")
	}
}

func TestSetup(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := Setup(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		logFile := filepath.Join(dir, "logs", "run.log")
		file := filepath.Join(dir, "bikeshare.yaml")
		content := fmt.Sprintf("data:\n  dir: %s\nlogging:\n  level: error\n  output: console\n  file_path: %s\n",
			filepath.Join(dir, "data"), logFile)
		require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

		cfg, logger, err := Setup(file)
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.Equal(t, filepath.Join(dir, "data"), cfg.Data.Dir)
		assert.Equal(t, logFile, cfg.Logging.FilePath)
		assert.DirExists(t, filepath.Join(dir, "logs"))
	})
}
