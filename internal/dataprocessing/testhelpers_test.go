package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// at parses a "2006-01-02 15:04:05" timestamp or fails the test
func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04:05", s)
	require.NoError(t, err)
	return ts
}

// trip builds a record with a duration
func trip(t *testing.T, start, from, to string, seconds float64) TripRecord {
	t.Helper()
	return TripRecord{
		StartTime:    at(t, start),
		StartStation: from,
		EndStation:   to,
		Duration:     seconds,
		HasDuration:  true,
	}
}

var fullSchema = Schema{HasEndTime: true, HasUserType: true, HasGender: true, HasBirthYear: true}

// chicagoCSV has every optional column, a leading unnamed index column and
// one row with a malformed start time.
const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
0,2017-01-01 09:07:57,2017-01-01 09:08:57,60,A,B,Subscriber,Male,1992.0
1,2017-01-02 09:30:00,2017-01-02 09:32:00,120,A,B,Customer,Female,1985.0
2,2017-03-03 17:00:00,2017-03-03 17:00:00,0,A,C,Subscriber,,
3,2017-01-06 08:00:00,2017-01-06 09:01:01,3661,C,B,Subscriber,Male,1992.0
4,not-a-date,2017-01-07 10:00:00,30,B,C,Customer,Male,1990.0
5,2017-05-05 17:15:00,2017-05-06 17:15:00,86400,B,A,Customer,Male,1970.0
`

// washingtonCSV lacks Gender and Birth Year
const washingtonCSV = `Start Time,End Time,Trip Duration,Start Station,End Station,User Type
2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Customer
2017-03-30 17:47:00,2017-03-30 17:54:00,oops,14th & Belmont St NW,15th & K St NW,Subscriber
`

// writeFile writes content under dir and returns its path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0644))
	return path
}
