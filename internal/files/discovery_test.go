package files

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/shared/testutil"
)

func TestDiscovery_Datasets(t *testing.T) {
	dir := testutil.WriteDatasets(t, map[string]string{
		"chicago.csv": testutil.TripHeader + "\n",
	})
	abs := filepath.Join(t.TempDir(), "elsewhere.xlsx")

	catalog := dataprocessing.NewCatalog(map[string]string{
		"chicago":  "chicago.csv",
		"boston":   "boston.csv",
		"portland": abs,
	})
	datasets := NewDiscovery(dir).Datasets(catalog)

	require.Len(t, datasets, 3)
	assert.Equal(t, "boston", datasets[0].City)
	assert.False(t, datasets[0].Exists)
	assert.Equal(t, filepath.Join(dir, "boston.csv"), datasets[0].Path)

	assert.Equal(t, "chicago", datasets[1].City)
	assert.True(t, datasets[1].Exists)
	assert.Equal(t, int64(len(testutil.TripHeader)+1), datasets[1].Size)
	assert.False(t, datasets[1].ModTime.IsZero())

	assert.Equal(t, abs, datasets[2].Path, "absolute catalog paths are kept")

	missing := Missing(datasets)
	require.Len(t, missing, 2)
	assert.Equal(t, "boston", missing[0].City)
	assert.Equal(t, "portland", missing[1].City)
}

func TestDiscovery_FindDatasetFiles(t *testing.T) {
	dir := testutil.WriteDatasets(t, map[string]string{
		"washington.csv":   "",
		"chicago.CSV":      "",
		"nyc.xlsx":         "",
		"~$nyc.xlsx":       "",
		"notes.txt":        "",
		"archive/2016.csv": "",
	})

	found, err := NewDiscovery(dir).FindDatasetFiles()
	require.NoError(t, err)

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"chicago.CSV", "nyc.xlsx", "washington.csv"}, names)
}

func TestDiscovery_FindDatasetFiles_MissingDir(t *testing.T) {
	_, err := NewDiscovery(filepath.Join(t.TempDir(), "nope")).FindDatasetFiles()
	assert.Error(t, err)
}

func TestDiscovery_Uncataloged(t *testing.T) {
	dir := testutil.WriteDatasets(t, map[string]string{
		"chicago.csv": "",
		"boston.csv":  "",
	})

	extra, err := NewDiscovery(dir).Uncataloged(dataprocessing.DefaultCatalog())
	require.NoError(t, err)
	require.Len(t, extra, 1)
	assert.Equal(t, "boston.csv", extra[0].Name)
}
