// Package files inspects the trip data directory.
//
// Discovery reports, for each city in a catalog, whether its dataset file is
// present along with its size and modification time, and lists .csv and
// .xlsx files that no city points at.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	for _, ds := range files.Missing(discovery.Datasets(catalog)) {
//	    logger.Warn("Dataset missing", slog.String("city", ds.City))
//	}
package files
