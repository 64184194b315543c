package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenveil/greenveil/internal/model"
)

const advisorSystemPrompt = "You summarize greenwashing analysis reports for consumers. " +
	"Only restate facts present in the report; do not speculate, do not add " +
	"certifications or violations that are not listed, and do not change any score."

// Advisor turns finished reports into narrative summaries. It consumes
// the report read-only: scoring is complete before an advisor ever runs.
type Advisor struct {
	provider Provider
	config   Config
	enabled  bool
}

// NewAdvisor creates an advisor, or a disabled one if no provider is
// configured
func NewAdvisor(cfg Config) (*Advisor, error) {
	if cfg.Provider == "" {
		return &Advisor{enabled: false}, nil
	}
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return &Advisor{provider: provider, config: cfg, enabled: true}, nil
}

// IsEnabled reports whether advisory generation is active
func (a *Advisor) IsEnabled() bool {
	return a != nil && a.enabled
}

// Generate produces the advisory for a finished report
func (a *Advisor) Generate(ctx context.Context, report *model.DeceptionReport) (*model.Advisory, error) {
	if !a.IsEnabled() {
		return nil, nil
	}

	resp, err := a.provider.Complete(ctx, CompletionRequest{
		System:    advisorSystemPrompt,
		Prompt:    buildAdvisoryPrompt(report),
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	advisory := &model.Advisory{
		Enabled:   true,
		Provider:  a.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Text,
	}
	if resp.Text == "" {
		advisory.Warnings = append(advisory.Warnings, "provider returned an empty summary")
	}
	return advisory, nil
}

// buildAdvisoryPrompt serializes the scored report into the prompt
func buildAdvisoryPrompt(report *model.DeceptionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Deception score: %.1f/100 (%s)\n", report.OverallScore, report.Severity)
	fmt.Fprintf(&b, "Primary deception type: %s\n\n", report.PrimaryDeceptionType)

	b.WriteString("Dimension scores:\n")
	for dim, ds := range report.Dimensions {
		fmt.Fprintf(&b, "- %s: %.2f\n", dim, ds.Value)
	}

	if len(report.RedFlags) > 0 {
		b.WriteString("\nRed flags:\n")
		for _, f := range report.RedFlags {
			fmt.Fprintf(&b, "- [%s] %s\n", f.Severity, f.Flag)
		}
	}

	if len(report.Claims) > 0 {
		b.WriteString("\nClaims:\n")
		for _, ca := range report.Claims {
			fmt.Fprintf(&b, "- %q: certification %s", ca.Claim.Text, ca.Verification.Status)
			if len(ca.Contradictions) > 0 {
				fmt.Fprintf(&b, ", %d contradiction record(s)", len(ca.Contradictions))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nWrite a short consumer-facing summary in Markdown.")
	return b.String()
}
