package report

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
)

// Timestamp layout used for raw rows
const rowTimeLayout = "2006-01-02 15:04:05"

// NotAvailable is printed for reports that have no data to work with
const NotAvailable = "No data available for the selected filters."

// Presenter prints the analysis sections in the order they are computed
type Presenter struct {
	*Printer
}

// NewPresenter creates a presenter on top of p
func NewPresenter(p *Printer) *Presenter {
	return &Presenter{Printer: p}
}

// Selection prints the chosen city and filters
func (p *Presenter) Selection(result *dataprocessing.LoadResult) {
	p.Print("Filtering by:")
	p.Field("City", TitleCase(result.City))
	p.Field("Month", result.Criteria.Month)
	p.Field("Day", result.Criteria.Day)
	if result.Skipped > 0 {
		p.Warning("Skipped %d of %d rows with a malformed start time.", result.Skipped, result.Total)
	}
	p.Print("\nLoading data...")
	p.Print("%d trips match.", result.Table.Len())
	p.Rule()
}

// Summary prints all four reports with their timings
func (p *Presenter) Summary(s dataprocessing.Summary) {
	p.TimeStats(s.Time, s.Elapsed[dataprocessing.ReportTime])
	p.StationStats(s.Station, s.Elapsed[dataprocessing.ReportStation])
	p.DurationStats(s.Duration, s.Elapsed[dataprocessing.ReportDuration])
	p.UserStats(s.User, s.Elapsed[dataprocessing.ReportUser])
}

// TimeStats prints the most frequent times of travel
func (p *Presenter) TimeStats(s dataprocessing.TimeStats, elapsed time.Duration) {
	p.Header("Calculating The Most Frequent Times of Travel...")
	if !s.Available {
		p.Warning(NotAvailable)
	} else {
		p.Field("Most common month", s.MonthName())
		p.Field("Most common day", s.Weekday)
		p.Field("Most common start hour", strconv.Itoa(s.Hour)+"h")
	}
	p.footer(elapsed)
}

// StationStats prints the most popular stations and trip
func (p *Presenter) StationStats(s dataprocessing.StationStats, elapsed time.Duration) {
	p.Header("Calculating The Most Popular Stations and Trip...")
	if !s.Available {
		p.Warning(NotAvailable)
	} else {
		p.Field("Most commonly used start station", s.StartStation)
		p.Field("Most commonly used end station", s.EndStation)
		p.Field("Most frequent combination of start station and end station trip", s.Trip)
	}
	p.footer(elapsed)
}

// DurationStats prints total, average, longest and shortest travel time
func (p *Presenter) DurationStats(s dataprocessing.DurationStats, elapsed time.Duration) {
	p.Header("Calculating Trip Duration...")
	if !s.Available {
		p.Warning(NotAvailable)
	} else {
		p.Field("Total travel time", dataprocessing.FormatDuration(s.Total))
		p.Field("Average travel time", dataprocessing.FormatDuration(s.Mean))
		p.Field("Longest travel time", dataprocessing.FormatDuration(s.Max))
		p.Field("Shortest travel time", dataprocessing.FormatDuration(s.Min))
	}
	p.footer(elapsed)
}

// UserStats prints the three demographic sections independently
func (p *Presenter) UserStats(s dataprocessing.UserStats, elapsed time.Duration) {
	p.Header("Calculating User Stats...")

	p.categories("User Type", "Counts of user types:", s.UserTypes)
	p.Blank()
	p.categories("Gender", "Counts of gender:", s.Genders)
	p.Blank()

	switch {
	case !s.BirthYears.Present:
		p.Warning("Birth Year information is not available in the dataset.")
	case !s.BirthYears.Available:
		p.Warning("Birth Year has no values for the selected filters.")
	default:
		p.Field("Oldest Customer birth year", s.BirthYears.Oldest)
		p.Field("Youngest Customer birth year", s.BirthYears.Youngest)
		p.Field("Most common Customer birth year", s.BirthYears.MostCommon)
	}
	p.footer(elapsed)
}

func (p *Presenter) categories(column, title string, s dataprocessing.CategoryStats) {
	if !s.Present {
		p.Warning("%s information is not available in the dataset.", column)
		return
	}
	if !s.Available() {
		p.Warning("%s has no values for the selected filters.", column)
		return
	}

	p.Print(title)
	table := NewTable(p.Writer(), []string{column, "Count"})
	for _, c := range s.Counts {
		table.AddRow([]string{c.Category, strconv.Itoa(c.Count)})
	}
	if err := table.Render(); err != nil {
		p.Error("render %s counts: %v", column, err)
	}
}

// footer closes a section with its timing line and rule
func (p *Presenter) footer(elapsed time.Duration) {
	p.Blank()
	p.Print("%s", p.Dim("This took "+strconv.FormatFloat(elapsed.Seconds(), 'f', 3, 64)+" seconds."))
	p.Rule()
}

// Rows prints a window of raw records, starting at the given offset, with the
// columns the schema carries.
func (p *Presenter) Rows(schema dataprocessing.Schema, offset int, rows []dataprocessing.TripRecord) {
	if len(rows) == 0 {
		p.Warning("No more raw data to display.")
		return
	}

	header := []string{"#", "Start Time"}
	if schema.HasEndTime {
		header = append(header, "End Time")
	}
	header = append(header, "Trip Duration", "Start Station", "End Station")
	if schema.HasUserType {
		header = append(header, "User Type")
	}
	if schema.HasGender {
		header = append(header, "Gender")
	}
	if schema.HasBirthYear {
		header = append(header, "Birth Year")
	}

	table := NewTable(p.Writer(), header)
	for i, r := range rows {
		row := []string{strconv.Itoa(offset + i), r.StartTime.Format(rowTimeLayout)}
		if schema.HasEndTime {
			row = append(row, formatTime(r.EndTime))
		}
		row = append(row, formatOptional(r.Duration, r.HasDuration), r.StartStation, r.EndStation)
		if schema.HasUserType {
			row = append(row, r.UserType)
		}
		if schema.HasGender {
			row = append(row, r.Gender)
		}
		if schema.HasBirthYear {
			row = append(row, formatOptional(r.BirthYear, r.HasBirthYear))
		}
		table.AddRow(row)
	}
	if err := table.Render(); err != nil {
		p.Error("render raw rows: %v", err)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(rowTimeLayout)
}

func formatOptional(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TitleCase capitalizes each word of a normalized city name
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
