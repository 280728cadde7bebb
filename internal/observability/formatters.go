// Package observability provides formatted output for the CLI: a summary
// of the stored CV, its completeness report and export results.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/lebenslauf/internal/editor"
	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", inner, truncate(line, inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "–"
	}
	return s
}

// PrintCV outputs a summary of the stored CV.
func (p *Printer) PrintCV(d types.CVData, lastSaved time.Time) {
	if d.IsEmpty() {
		p.printBox("LEBENSLAUF", "(empty)")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:       %s\n", orDash(d.PersonalInfo.FullName())))
	sb.WriteString(fmt.Sprintf("Job title:  %s\n", orDash(d.PersonalInfo.JobTitle)))
	sb.WriteString(fmt.Sprintf("Email:      %s\n", orDash(d.PersonalInfo.Email)))
	if d.PersonalInfo.Photo != "" {
		sb.WriteString("Photo:      yes\n")
	}
	if !lastSaved.IsZero() {
		sb.WriteString(fmt.Sprintf("Saved:      %s\n", lastSaved.Local().Format("2006-01-02 15:04:05")))
	}
	sb.WriteString("\n")

	if len(d.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(d.Experience)))
		count := min(len(d.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := d.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", orDash(e.Position)))
			if e.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", e.Company))
			}
			sb.WriteString("\n")
		}
		if len(d.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(d.Experience)-maxItemsToShow))
		}
	}

	if len(d.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(d.Education)))
		count := min(len(d.Education), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", orDash(d.Education[i].Degree)))
		}
		if len(d.Education) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(d.Education)-maxItemsToShow))
		}
	}

	if len(d.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:     %s\n", strings.Join(d.Skills, ", ")))
	}
	if len(d.Languages) > 0 {
		langs := make([]string, 0, len(d.Languages))
		for _, l := range d.Languages {
			langs = append(langs, fmt.Sprintf("%s (%s)", l.Language, orDash(string(l.Level))))
		}
		sb.WriteString(fmt.Sprintf("Languages:  %s\n", strings.Join(langs, ", ")))
	}

	p.printBox("LEBENSLAUF", strings.TrimRight(sb.String(), "\n"))
}

// PrintCompleteness outputs the advisory completeness report.
func (p *Printer) PrintCompleteness(r editor.Report) {
	if r.Complete() && len(r.Warnings) == 0 {
		p.printBox("COMPLETENESS", "✓ nothing missing")
		return
	}

	var sb strings.Builder
	for _, issue := range r.Errors {
		sb.WriteString(fmt.Sprintf("✗ %s (%s)\n", issue.Field, issue.Rule))
	}
	count := min(len(r.Warnings), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("! %s (%s)\n", r.Warnings[i].Field, r.Warnings[i].Rule))
	}
	if len(r.Warnings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more warnings\n", len(r.Warnings)-maxItemsToShow))
	}

	p.printBox("COMPLETENESS", strings.TrimRight(sb.String(), "\n"))
}

// PrintExport outputs the result of a PDF export.
func (p *Printer) PrintExport(path string, res *export.Result) {
	if res == nil {
		return
	}
	content := fmt.Sprintf("File:   %s\nPages:  %d\nSize:   %d KB", path, res.Pages, (len(res.PDF)+1023)/1024)
	p.printBox("PDF EXPORT", content)
}
