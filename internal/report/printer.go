// Package report renders analysis results for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// RuleWidth is the width of the dashed rule closing each section
const RuleWidth = 40

// ColorMode represents color output mode
type ColorMode int

const (
	// ColorAuto enables colors when the terminal supports them (default)
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever forces colors off
	ColorNever
)

// ParseColorMode parses "auto", "always" or "never"
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors decides whether to use colors for mode in the current environment
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		// fatih/color already checks whether stdout is a terminal
		return !color.NoColor
	}
}

// Printer writes plain and colored lines to a writer
type Printer struct {
	out       io.Writer
	useColors bool
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer, useColors bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, useColors: useColors}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Print prints a plain line
func (p *Printer) Print(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Blank prints an empty line
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Header prints a section title
func (p *Printer) Header(title string) {
	p.color(color.FgCyan, color.Bold).Fprintf(p.out, "\n%s\n\n", title)
}

// Field prints a "label: value" line with the value highlighted
func (p *Printer) Field(label string, value interface{}) {
	fmt.Fprintf(p.out, "%s: %s\n", label, p.color(color.Bold).Sprint(value))
}

// Warning prints a warning line
func (p *Printer) Warning(format string, args ...interface{}) {
	p.color(color.FgYellow).Fprintf(p.out, format+"\n", args...)
}

// Error prints an error line
func (p *Printer) Error(format string, args ...interface{}) {
	p.color(color.FgRed).Fprintf(p.out, "Error: "+format+"\n", args...)
}

// Success prints a confirmation line
func (p *Printer) Success(format string, args ...interface{}) {
	p.color(color.FgGreen).Fprintf(p.out, format+"\n", args...)
}

// Dim returns dimmed text
func (p *Printer) Dim(text string) string {
	return p.color(color.Faint).Sprint(text)
}

// Rule prints the dashed section separator
func (p *Printer) Rule() {
	fmt.Fprintln(p.out, strings.Repeat("-", RuleWidth))
}
