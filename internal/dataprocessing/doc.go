// Package dataprocessing is the bikeshare trip engine. It reads a city's trip
// log into a TripTable, derives calendar columns, filters by month and day, and
// computes the descriptive statistics shown to users.
//
// # Architecture
//
//  1. Parser: reads .csv or .xlsx rows and maps the header onto TripRecords
//  2. Loader: resolves a city through the Catalog and applies Criteria
//  3. Reporters: time, station, duration and user statistics
//  4. Paginator: five-row windows over the filtered table
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataprocessing.DefaultCatalog(), "data", logger)
//	criteria, err := dataprocessing.ParseCriteria("march", "friday")
//	if err != nil {
//	    return err
//	}
//	result, err := loader.Load(ctx, "chicago", criteria)
//	if err != nil {
//	    return err
//	}
//	summary := dataprocessing.Summarize(ctx, result.Table, nil)
//	fmt.Println(dataprocessing.FormatDuration(summary.Duration.Mean))
//
// # Data Rules
//
// Rows with an empty or malformed Start Time are dropped and counted, not
// fatal. Reporters never fail on empty input; they mark their result as not
// available instead. Modes break ties by first occurrence in table order.
//
// # Error Handling
//
// Load returns internal/errors AppErrors whose causes are the sentinel errors
// of this package, so callers can use errors.Is(err, ErrSourceNotFound).
package dataprocessing
