// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/types"
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

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// list writes up to limit items as bullets followed by a "... and N more" line.
func list(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintJob outputs the requirements a candidate is scored against.
func (p *Printer) PrintJob(job *types.Job) {
	if job == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title:      %s\n", job.Title)
	if job.Department != "" {
		fmt.Fprintf(&sb, "Department: %s\n", job.Department)
	}
	req := job.Requirements
	fmt.Fprintf(&sb, "Experience: %g+ years\n", req.MinExperienceYears)
	if req.EducationLevel != "" {
		fmt.Fprintf(&sb, "Education:  %s\n", req.EducationLevel)
	}
	sb.WriteString("\n")

	if len(req.RequiredSkills) > 0 {
		sb.WriteString("Required Skills:\n")
		list(&sb, req.RequiredSkills, maxItemsToShow)
	}
	if len(req.PreferredSkills) > 0 {
		sb.WriteString("Preferred Skills:\n")
		list(&sb, req.PreferredSkills, 3)
	}
	if len(req.Certifications) > 0 {
		sb.WriteString("Certifications:\n")
		list(&sb, req.Certifications, 3)
	}

	p.printBox("JOB REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs the ranking result for one candidate.
func (p *Printer) PrintScore(name string, result *ranking.Result) {
	if result == nil {
		return
	}
	d := &result.Details

	var sb strings.Builder
	fmt.Fprintf(&sb, "Candidate: %s\n", name)
	fmt.Fprintf(&sb, "Score:     %.2f (%s)\n", result.RankingScore, result.Tier.Label())
	sb.WriteString("\n")

	for _, sub := range types.SubScoreNames {
		fmt.Fprintf(&sb, "%-22s %6.2f  x %.2f\n", sub, d.SubScores()[sub], d.Weights[sub])
	}

	if len(d.MatchedRequired) > 0 {
		sb.WriteString("\nMatched required:\n")
		list(&sb, d.MatchedRequired, maxItemsToShow)
	}
	if len(d.MissingRequired) > 0 {
		sb.WriteString("\nMissing required:\n")
		list(&sb, d.MissingRequired, maxItemsToShow)
	}

	p.printBox("CANDIDATE SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiagnostics outputs degraded input notes recorded while scoring.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDiagnostics(diags []types.Diagnostic) {
	if len(diags) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO DIAGNOSTICS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d diagnostics:\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "⚠ %s (%s)\n", d.Code, d.SubScore)
		fmt.Fprintf(&sb, "  %s\n", d.Message)
		if i < len(diags)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DIAGNOSTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs a job's ranking summary.
func (p *Printer) PrintSummary(summary *ranking.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Scored candidates: %d\n", summary.TotalCandidates)
	fmt.Fprintf(&sb, "Average score:     %.2f\n\n", summary.AverageScore)
	for _, tier := range []types.Tier{types.TierStrong, types.TierModerate, types.TierWeak} {
		fmt.Fprintf(&sb, "%-13s %d\n", tier.Label()+":", summary.TierDistribution[tier])
	}

	if len(summary.TopCandidates) > 0 {
		sb.WriteString("\n")
		for i, c := range summary.TopCandidates {
			fmt.Fprintf(&sb, "#%d  %s  %.2f\n", i+1, c.Name, c.Score)
			if len(c.TopSkills) > 0 {
				fmt.Fprintf(&sb, "    Skills: %s\n", clip(strings.Join(c.TopSkills, ", "), 40))
			}
		}
	}

	p.printBox("RANKING SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
