package interactive

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	"github.com/Jtofah/pdsnd-github/internal/report"
	"github.com/Jtofah/pdsnd-github/internal/shared/testutil"
)

const chicagoCSV = `Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
2017-01-01 09:07:57,2017-01-01 09:08:57,60,A,B,Subscriber,Male,1992.0
2017-01-02 17:00:00,2017-01-02 17:02:00,120,A,B,Customer,Female,1985.0
2017-01-06 08:00:00,2017-01-06 08:05:00,300,C,D,Subscriber,,
2017-02-03 10:00:00,2017-02-03 10:01:00,60,D,A,Subscriber,Male,1970.0
`

func newTestSession(t *testing.T, input string) (*Session, *Prompter, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte(chicagoCSV), 0o644))

	out := &bytes.Buffer{}
	printer := report.NewPrinter(out, false)
	logger := infrastructure.NewLogger(io.Discard, "error")
	loader := dataprocessing.NewLoader(dataprocessing.DefaultCatalog(), dir, logger)

	session := NewSession(loader, report.NewPresenter(printer), nil, logger)
	return session, NewPrompter(strings.NewReader(input), printer), out
}

func TestSession_Run(t *testing.T) {
	input := strings.Join([]string{
		"paris", "chicago",
		"july", "january",
		"funday", "all",
		"maybe", "yes", "yes", "no",
		"no",
	}, "\n") + "\n"
	session, prompter, out := newTestSession(t, input)

	require.NoError(t, session.Run(context.Background(), prompter))

	text := out.String()
	assert.Contains(t, text, "Invalid input. Please re-enter a valid city.")
	assert.Contains(t, text, "Invalid input. Please re-enter a valid month or 'all'.")
	assert.Contains(t, text, "Invalid input. Please re-enter a valid day or 'all' for no filter.")
	assert.Contains(t, text, "Input does not seem to match any of the accepted responses.")

	assert.Contains(t, text, "City: Chicago")
	assert.Contains(t, text, "Month: January")
	assert.Contains(t, text, "3 trips match.")
	assert.Contains(t, text, "Most commonly used start station: A")
	assert.Equal(t, 4, strings.Count(text, "This took"))

	assert.Contains(t, text, "2017-01-06 08:00:00", "first raw window")
	assert.Contains(t, text, "No more raw data to display.", "second window is past the end")
	assert.True(t, strings.HasSuffix(text, "See you later!\n"))
}

func TestSession_Run_RestartAfterMissingFile(t *testing.T) {
	input := strings.Join([]string{
		"chicago", "all", "all", "no",
		"yes",
		"washington", "all", "all",
		"no",
	}, "\n") + "\n"
	session, prompter, out := newTestSession(t, input)

	require.NoError(t, session.Run(context.Background(), prompter))

	text := out.String()
	assert.Contains(t, text, "4 trips match.")
	assert.Contains(t, text, "Error: The data file")
	assert.Contains(t, text, "washington.csv was not found.")
	assert.Equal(t, 1, strings.Count(text, "Do you want to see 5 lines of raw data?"),
		"no raw data prompt after a failed load")
	assert.Contains(t, text, "See you later!")
}

func TestSession_Analyze_LogsLoadFailure(t *testing.T) {
	session, _, _ := newTestSession(t, "")
	logger, handler := testutil.NewTestLogger(t)
	session.logger = logger

	_, err := session.Analyze(context.Background(), "washington", dataprocessing.Criteria{})
	require.Error(t, err)

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Analysis failed")
	assert.True(t, handler.ContainsAttr("city", "washington"))
	records := handler.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].Attrs["error"])
}

func TestSession_Run_InputClosed(t *testing.T) {
	session, prompter, out := newTestSession(t, "chicago\n")

	require.NoError(t, session.Run(context.Background(), prompter))
	assert.Contains(t, out.String(), "See you later!")
}

func TestSession_Run_Cancelled(t *testing.T) {
	session, prompter, _ := newTestSession(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, session.Run(ctx, prompter), context.Canceled)
}

func TestSession_AnalyzeAndShowRows(t *testing.T) {
	session, _, out := newTestSession(t, "")

	result, err := session.Analyze(context.Background(), "Chicago", dataprocessing.Criteria{Day: dataprocessing.DayOf(time.Friday)})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Table.Len())

	session.ShowRows(result, 3)
	text := out.String()
	assert.Contains(t, text, "2017-02-03 10:00:00")
	assert.NotContains(t, text, "No more raw data", "stops once every row was shown")

	_, err = session.Analyze(context.Background(), "paris", dataprocessing.Criteria{})
	assert.ErrorIs(t, err, dataprocessing.ErrUnknownCity)
	assert.Contains(t, out.String(), "unknown city")
}
