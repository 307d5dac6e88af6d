package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TripHeader is the full dataset header row, every optional column included
const TripHeader = "Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year"

// WriteDatasets writes each name -> content pair into a new temporary data
// directory and returns the directory
func WriteDatasets(t *testing.T, datasets map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range datasets {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}
