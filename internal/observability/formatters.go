// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxSkillsToShow is the number of skills listed on a job card
	maxSkillsToShow = 6
	// descriptionLines is the number of description lines shown on a job card
	descriptionLines = 4
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// PrintJob outputs a catalog card for a job about to be inserted.
func (p *Printer) PrintJob(job *types.NewJob) {
	if job == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:  %s\n", job.Company)
	fmt.Fprintf(&sb, "Location: %s\n", job.Location)
	fmt.Fprintf(&sb, "Type:     %s, %s\n", job.JobType, job.WorkMode)
	if job.SalaryRange != nil {
		fmt.Fprintf(&sb, "Salary:   %s\n", *job.SalaryRange)
	}
	if len(job.Skills) > 0 {
		sb.WriteString("Skills:   " + joinLimited(job.Skills, maxSkillsToShow) + "\n")
	}

	lines := nonEmptyLines(job.Description)
	if len(lines) > 0 {
		sb.WriteString("\n")
		for _, line := range lines[:min(len(lines), descriptionLines)] {
			sb.WriteString(line + "\n")
		}
		if len(lines) > descriptionLines {
			fmt.Fprintf(&sb, "... and %d more lines\n", len(lines)-descriptionLines)
		}
	}

	p.printBox(job.Title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatch outputs a match result for job with a score bar.
func (p *Printer) PrintMatch(job *types.Job, result types.MatchResult) {
	if job == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at %s\n\n", job.Title, job.Company)
	fmt.Fprintf(&sb, "Score: %3d%% %s\n", result.Score, scoreBar(result.Score))
	if len(job.Skills) > 0 {
		sb.WriteString("Skills: " + joinLimited(job.Skills, maxSkillsToShow) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(result.Explanation)

	p.printBox("MATCH RESULT", sb.String())
}

// scoreBar renders score out of 100 as a 20-cell bar.
func scoreBar(score int) string {
	filled := max(0, min(score, 100)) / 5
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", 20-filled) + "]"
}

func joinLimited(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(items[:limit], ", "), len(items)-limit)
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
