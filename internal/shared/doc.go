// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger to capture and assert log records
//   - WriteDatasets to lay out a temporary data directory of trip files
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    dir := testutil.WriteDatasets(t, map[string]string{"chicago.csv": csv})
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
