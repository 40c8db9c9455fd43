// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/ritikiit/careergps1/internal/schemas"
	"github.com/ritikiit/careergps1/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// PrintRequest outputs the inputs a report was generated for.
func (p *Printer) PrintRequest(req types.ReportRequest) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:       %s\n", req.Role))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", req.Experience))
	sb.WriteString(fmt.Sprintf("Industry:   %s\n", req.Industry))
	sb.WriteString(fmt.Sprintf("Target:     %s\n", req.Target))
	sb.WriteString(fmt.Sprintf("Horizon:    %s", req.Horizon))
	p.printBox("REPORT REQUEST", sb.String())
}

// PrintSummary outputs the executive summary and the reality check.
func (p *Printer) PrintSummary(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for _, point := range report.ExecutiveSummary {
		for i, line := range wrap(point, boxWidth-8) {
			if i == 0 {
				sb.WriteString("  • " + line + "\n")
			} else {
				sb.WriteString("    " + line + "\n")
			}
		}
	}
	sb.WriteString("\n")

	title := "Reality check:"
	if report.IsUnrealistic() {
		title = "Reality check (WARNING):"
	}
	sb.WriteString(title + "\n")
	for _, line := range wrap(report.RealityCheck, boxWidth-6) {
		sb.WriteString("  " + line + "\n")
	}

	p.printBox("EXECUTIVE SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDistanceMap outputs gap counts and the top gaps per category.
func (p *Printer) PrintDistanceMap(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for i, cat := range report.DistanceMap.Categories() {
		sb.WriteString(fmt.Sprintf("%s (%d)\n", cat.Label, len(cat.Gaps)))
		count := min(len(cat.Gaps), maxItemsToShow)
		for j := 0; j < count; j++ {
			gap := cat.Gaps[j]
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", gap.Importance, gap.Missing))
		}
		if len(cat.Gaps) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(cat.Gaps)-maxItemsToShow))
		}
		if i < 3 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CAREER DISTANCE MAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDecisionOptions outputs the three simulated paths with their likelihood.
func (p *Printer) PrintDecisionOptions(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for _, opt := range report.DecisionSimulator.Options() {
		sb.WriteString(fmt.Sprintf("%s: %s\n", opt.Label, opt.Likelihood))
		sb.WriteString(fmt.Sprintf("  Upside: %s\n", opt.Upside))
		sb.WriteString(fmt.Sprintf("  Risk:   %s\n", opt.Risk))
	}

	p.printBox("DECISION SIMULATOR", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintActionPlan outputs each plan entry with its deliverable and action count.
func (p *Printer) PrintActionPlan(report *types.Report) {
	if report == nil || len(report.ActionPlan) == 0 {
		return
	}

	var sb strings.Builder
	for _, group := range report.ActionPlan {
		sb.WriteString(group.Label + "\n")
		if len(group.Phases) == 0 {
			sb.WriteString(fmt.Sprintf("  Deliverable: %s\n", types.DefaultDeliverable))
			continue
		}
		for _, phase := range group.Phases {
			sb.WriteString(fmt.Sprintf("  Deliverable: %s\n", phase.DeliverableOrDefault()))
			if phase.ActionsAvailable {
				sb.WriteString(fmt.Sprintf("  Actions:     %d\n", len(phase.Actions)))
			} else {
				sb.WriteString("  Actions:     unavailable\n")
			}
		}
	}

	p.printBox("90-DAY PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSchemaWarnings outputs schema findings, or a clean bill when there are none.
func (p *Printer) PrintSchemaWarnings(warnings []schemas.FieldError) {
	if len(warnings) == 0 {
		p.printBox("SCHEMA CHECK", "✓ Response matches the report schema")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d finding(s):\n\n", len(warnings)))
	count := min(len(warnings), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", warnings[i].Field))
		sb.WriteString(fmt.Sprintf("  %s\n", warnings[i].Message))
	}
	if len(warnings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(warnings)-maxItemsToShow))
	}

	p.printBox("SCHEMA CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs every summary box for a generated report.
func (p *Printer) PrintReport(req types.ReportRequest, report *types.Report, warnings []schemas.FieldError) {
	p.PrintRequest(req)
	p.PrintSummary(report)
	p.PrintDistanceMap(report)
	p.PrintDecisionOptions(report)
	p.PrintActionPlan(report)
	p.PrintSchemaWarnings(warnings)
}
