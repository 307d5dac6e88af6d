package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("Trips exported", slog.String("format", "csv"))
		logger.Error("Trip export failed", slog.Int("records", 0))

		require.Len(t, handler.GetRecords(), 2)
		assert.Equal(t, 1, handler.CountMessage("Trips exported"))
		assert.True(t, handler.ContainsAttr("format", "csv"))
		AssertLogContains(t, handler, slog.LevelError, "export failed")
	})

	t.Run("keeps attributes from With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "loader").Warn("Dropped rows with malformed start time")
		logger.Info("no component")

		assert.True(t, handler.ContainsAttr("component", "loader"))
		records := handler.GetRecords()
		require.Len(t, records, 2, "derived loggers share the sink")
		assert.NotContains(t, records[1].Attrs, "component")
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug")
		logger.Info("info")
		logger.Warn("warn")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
		AssertNoErrors(t, handler)
	})
}

func TestWriteDatasets(t *testing.T) {
	dir := WriteDatasets(t, map[string]string{
		"chicago.csv":       TripHeader + "\n",
		"archive/2016.xlsx": "",
	})

	data, err := os.ReadFile(filepath.Join(dir, "chicago.csv"))
	require.NoError(t, err)
	assert.Equal(t, TripHeader+"\n", string(data))
	assert.FileExists(t, filepath.Join(dir, "archive", "2016.xlsx"))
}
