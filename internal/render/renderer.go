// Package render writes deception reports as JSON, Markdown and a
// colored terminal summary. The core defines only the report schema;
// these are presentation conveniences for the CLI.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/greenveil/greenveil/internal/model"
)

// Renderer renders deception reports
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.DeceptionReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.DeceptionReport, path string) error {
	var b strings.Builder

	title := report.Subject
	if title == "" {
		title = "Deception Analysis"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Deception score:** %.1f/100 (%s)\n\n", report.OverallScore, report.Severity)
	fmt.Fprintf(&b, "**Primary deception type:** %s\n\n", report.PrimaryDeceptionType)

	b.WriteString("## Dimension Scores\n\n")
	b.WriteString("| Dimension | Score | Substituted |\n|---|---|---|\n")
	for _, dim := range sortedDimensions(report.Dimensions) {
		ds := report.Dimensions[dim]
		sub := ""
		if ds.Substituted {
			sub = "yes"
		}
		fmt.Fprintf(&b, "| %s | %.2f | %s |\n", dim, ds.Value, sub)
	}
	b.WriteString("\n")

	if len(report.Claims) > 0 {
		b.WriteString("## Claims\n\n")
		for _, ca := range report.Claims {
			fmt.Fprintf(&b, "### %q\n\n", ca.Claim.Text)
			fmt.Fprintf(&b, "- Certification: **%s**", ca.Verification.Status)
			if ca.Verification.MatchedEntity != "" {
				fmt.Fprintf(&b, " (matched %s, confidence %.2f)", ca.Verification.MatchedEntity, ca.Verification.Confidence)
			}
			b.WriteString("\n")
			for _, ev := range ca.Verification.Evidence {
				fmt.Fprintf(&b, "- %s\n", ev)
			}
			for _, c := range ca.Contradictions {
				fmt.Fprintf(&b, "- ⚠ %s\n", c)
			}
			for _, n := range ca.Notes {
				fmt.Fprintf(&b, "- %s\n", n)
			}
			b.WriteString("\n")
		}
	}

	if len(report.RedFlags) > 0 {
		b.WriteString("## Red Flags\n\n")
		for _, f := range report.RedFlags {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", f.Flag, f.Severity, f.Source)
		}
		b.WriteString("\n")
	}

	if len(report.MissingEvidence) > 0 {
		b.WriteString("## Missing Evidence\n\n")
		for _, m := range report.MissingEvidence {
			fmt.Fprintf(&b, "- %s\n", m)
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	if report.Advisory != nil && report.Advisory.Enabled {
		b.WriteString("## Advisory Summary\n\n")
		b.WriteString("_Generated after scoring; does not affect the score._\n\n")
		b.WriteString(report.Advisory.SummaryMD)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated %s · report %s\n", report.CreatedAt.Format("2006-01-02 15:04 UTC"), report.ID)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a colored one-screen summary to stdout
func (r *Renderer) RenderSummary(report *model.DeceptionReport) {
	bandColor := severityColor(report.Severity)

	fmt.Println()
	if report.Subject != "" {
		fmt.Printf("Subject: %s\n", report.Subject)
	}
	fmt.Printf("Deception score: %s\n", bandColor.Sprintf("%.1f/100 (%s)", report.OverallScore, report.Severity))
	fmt.Printf("Primary type: %s\n\n", report.PrimaryDeceptionType)

	for _, dim := range sortedDimensions(report.Dimensions) {
		ds := report.Dimensions[dim]
		marker := ""
		if ds.Substituted {
			marker = " (substituted)"
		}
		fmt.Printf("  %-28s %.2f%s\n", dim, ds.Value, marker)
	}

	if len(report.RedFlags) > 0 {
		fmt.Println()
		for _, f := range report.RedFlags {
			c := color.New(color.FgYellow)
			if f.Severity == model.FlagCritical {
				c = color.New(color.FgRed, color.Bold)
			}
			fmt.Printf("  %s %s\n", c.Sprint("⚠"), f.Flag)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Println()
		for _, rec := range report.Recommendations {
			fmt.Printf("  → %s\n", rec)
		}
	}
	fmt.Println()
}

func severityColor(band model.SeverityBand) *color.Color {
	switch band {
	case model.BandTrustworthy:
		return color.New(color.FgGreen)
	case model.BandMinorConcerns:
		return color.New(color.FgCyan)
	case model.BandModerate:
		return color.New(color.FgYellow)
	case model.BandHigh:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func sortedDimensions(dims map[model.Dimension]model.DimensionScore) []model.Dimension {
	keys := make([]model.Dimension, 0, len(dims))
	for d := range dims {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
