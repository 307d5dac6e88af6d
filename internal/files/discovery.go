package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Dataset is a catalog entry and the state of its file on disk
type Dataset struct {
	City   string
	File   string
	Path   string
	Exists bool
	// Size and ModTime are zero when the file is missing
	Size    int64
	ModTime time.Time
}

// Discovery inspects the data directory
type Discovery struct {
	dataDir string
}

// NewDiscovery creates a new discovery instance over dataDir
func NewDiscovery(dataDir string) *Discovery {
	return &Discovery{dataDir: dataDir}
}

// resolve joins relative catalog files onto the data directory
func (d *Discovery) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(d.dataDir, file)
}

// Datasets reports every catalog city with its file state, sorted by city
func (d *Discovery) Datasets(catalog dataprocessing.Catalog) []Dataset {
	cities := catalog.Cities()
	datasets := make([]Dataset, 0, len(cities))
	for _, city := range cities {
		file, _ := catalog.Lookup(city)
		ds := Dataset{City: city, File: file, Path: d.resolve(file)}
		if info, err := os.Stat(ds.Path); err == nil && !info.IsDir() {
			ds.Exists = true
			ds.Size = info.Size()
			ds.ModTime = info.ModTime()
		}
		datasets = append(datasets, ds)
	}
	return datasets
}

// Missing returns the datasets whose file does not exist
func Missing(datasets []Dataset) []Dataset {
	var missing []Dataset
	for _, ds := range datasets {
		if !ds.Exists {
			missing = append(missing, ds)
		}
	}
	return missing
}

// FindDatasetFiles lists the .csv and .xlsx files in the data directory,
// sorted by name
func (d *Discovery) FindDatasetFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dataDir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv", ".xlsx":
		default:
			continue
		}
		// Skip Excel lock files
		if strings.HasPrefix(name, "~$") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(d.dataDir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Uncataloged returns the dataset files that no catalog city points at
func (d *Discovery) Uncataloged(catalog dataprocessing.Catalog) ([]FileInfo, error) {
	found, err := d.FindDatasetFiles()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	for _, ds := range d.Datasets(catalog) {
		known[filepath.Clean(ds.Path)] = true
	}

	var extra []FileInfo
	for _, f := range found {
		if !known[filepath.Clean(f.Path)] {
			extra = append(extra, f)
		}
	}
	return extra, nil
}
