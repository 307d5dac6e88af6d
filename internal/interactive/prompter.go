// Package interactive drives the question-and-answer terminal session.
package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	"github.com/Jtofah/pdsnd-github/internal/report"
)

// ErrInputClosed is returned when the input ends before a valid answer
var ErrInputClosed = errors.New("input closed")

const (
	promptCity    = "Enter the name of the city (%s): "
	promptMonth   = "Enter the name of the month (January, February, ... June) or 'all' for no filter: "
	promptDay     = "Enter the day of the week (Monday, Tuesday, ... Sunday) or 'all' for no filter: "
	promptRaw     = `Do you want to see 5 lines of raw data? Enter "yes" or "no": `
	promptRestart = `Choose "yes" to continue or "no" to exit: `
)

// Prompter reads validated answers, asking again until the input is valid
type Prompter struct {
	reader  *bufio.Reader
	printer *report.Printer
}

// NewPrompter creates a prompter reading from in and writing through p
func NewPrompter(in io.Reader, p *report.Printer) *Prompter {
	return &Prompter{
		reader:  bufio.NewReader(in),
		printer: p,
	}
}

// ask prints prompt and returns the trimmed, lowercased answer
func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.printer.Writer(), prompt)

	line, err := p.reader.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
		if line == "" {
			fmt.Fprintln(p.printer.Writer())
			return "", ErrInputClosed
		}
	case err != nil:
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

// AskCity asks for a city until the answer is in the catalog
func (p *Prompter) AskCity(catalog dataprocessing.Catalog) (string, error) {
	names := make([]string, 0, len(catalog.Cities()))
	for _, city := range catalog.Cities() {
		names = append(names, report.TitleCase(city))
	}
	prompt := fmt.Sprintf(promptCity, strings.Join(names, ", "))

	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return "", err
		}
		if _, ok := catalog.Lookup(answer); ok {
			return answer, nil
		}
		p.printer.Warning("Invalid input. Please re-enter a valid city.")
	}
}

// AskMonth asks for a month filter until it parses
func (p *Prompter) AskMonth() (dataprocessing.MonthFilter, error) {
	for {
		answer, err := p.ask(promptMonth)
		if err != nil {
			return dataprocessing.AllMonths, err
		}
		month, err := dataprocessing.ParseMonth(answer)
		if err == nil {
			return month, nil
		}
		p.printer.Warning("Invalid input. Please re-enter a valid month or 'all'.")
	}
}

// AskDay asks for a day filter until it parses
func (p *Prompter) AskDay() (dataprocessing.DayFilter, error) {
	for {
		answer, err := p.ask(promptDay)
		if err != nil {
			return dataprocessing.AllDays, err
		}
		day, err := dataprocessing.ParseDay(answer)
		if err == nil {
			return day, nil
		}
		p.printer.Warning("Invalid input. Please re-enter a valid day or 'all' for no filter.")
	}
}

// AskCriteria asks for the month and then the day
func (p *Prompter) AskCriteria() (dataprocessing.Criteria, error) {
	month, err := p.AskMonth()
	if err != nil {
		return dataprocessing.Criteria{}, err
	}
	day, err := p.AskDay()
	if err != nil {
		return dataprocessing.Criteria{}, err
	}
	return dataprocessing.Criteria{Month: month, Day: day}, nil
}

// AskYesNo asks prompt until the answer is "yes" or "no"
func (p *Prompter) AskYesNo(prompt string) (bool, error) {
	for {
		answer, err := p.ask("\n" + prompt)
		if err != nil {
			return false, err
		}
		switch answer {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
		p.printer.Warning("\nPlease check your input.\nInput does not seem to match any of the accepted responses.")
	}
}
