// Package exporter writes filtered trip selections and their summaries to
// files.
//
// Two components:
//
// WriteCSV and StreamWriter: CSV writing with headers, streaming and an
// optional UTF-8 BOM so spreadsheet applications pick the right encoding.
//
// TripExporter: writes the records of a TripTable, with the columns its
// schema carries, as .csv or .xlsx (chosen by file extension), and writes a
// report summary as metric/value rows. Reports without data are written as
// "available,false" and missing user columns as not_available.
//
// Exported files can be read back by dataprocessing.ReadTripFile.
//
// Example usage:
//
//	exp := exporter.NewTripExporter(logger)
//	n, err := exp.ExportTrips(ctx, "out/chicago-june.xlsx", result.Table)
package exporter
