package score

import (
	"fmt"
	"strings"

	"github.com/greenveil/greenveil/internal/model"
)

// topicCategories maps claim-topic keywords to deception categories
var topicCategories = []struct {
	keywords []string
	dtype    model.DeceptionType
}{
	{[]string{"carbon", "climate", "energy", "emission", "environment", "organic", "eco"}, model.DeceptionGreenwashing},
	{[]string{"material", "reduction", "recycl", "waste", "packaging", "plastic", "substance"}, model.DeceptionBrownwashing},
	{[]string{"labor", "labour", "social", "community", "fair", "worker", "diversity"}, model.DeceptionBluewashing},
}

// deceptionTypes identifies every deception category present in the
// analyzed bundle
func deceptionTypes(bundle *model.ClaimBundle, claims []model.ClaimAnalysis, cfg *model.Config) []model.DeceptionType {
	seen := make(map[model.DeceptionType]bool)
	var types []model.DeceptionType
	add := func(t model.DeceptionType) {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	for _, ca := range claims {
		topic := strings.ToLower(ca.Claim.Topic + " " + ca.Claim.Text)
		for _, tc := range topicCategories {
			for _, kw := range tc.keywords {
				if strings.Contains(topic, kw) {
					add(tc.dtype)
					break
				}
			}
		}
		if ca.Verification.Status == model.StatusFake {
			add(model.DeceptionFakeCertifications)
		}
		if ca.Claim.Vagueness > cfg.Thresholds.HighVagueness {
			add(model.DeceptionVagueClaims)
		}
	}

	if bundle.Visual.ExcessiveGreen || bundle.Visual.NatureImagery {
		add(model.DeceptionVisual)
	}

	return types
}

// primaryType picks the leading deception category
func primaryType(types []model.DeceptionType) model.DeceptionType {
	if len(types) == 0 {
		return model.DeceptionNone
	}
	return types[0]
}

// redFlags compiles the specific issues surfaced by the analysis, graded
// by severity
func redFlags(bundle *model.ClaimBundle, claims []model.ClaimAnalysis) []model.RedFlag {
	var flags []model.RedFlag

	for _, ca := range claims {
		switch ca.Verification.Status {
		case model.StatusFake:
			flags = append(flags, model.RedFlag{
				Source:   "certification",
				Claim:    ca.Claim.Text,
				Flag:     fmt.Sprintf("questionable certification: %s", ca.Verification.MatchedEntity),
				Severity: model.FlagCritical,
			})
		case model.StatusSuspicious:
			flags = append(flags, model.RedFlag{
				Source:   "certification",
				Claim:    ca.Claim.Text,
				Flag:     "suspicious certification claim",
				Severity: model.FlagHigh,
			})
		}

		if ca.AbsoluteContradiction {
			flags = append(flags, model.RedFlag{
				Source:   "claim_analysis",
				Claim:    ca.Claim.Text,
				Flag:     "absolute claim contradicted by violation record",
				Severity: model.FlagHigh,
			})
		} else if len(ca.Contradictions) > 0 {
			flags = append(flags, model.RedFlag{
				Source:   "claim_analysis",
				Claim:    ca.Claim.Text,
				Flag:     "claim contradicted by knowledge-graph evidence",
				Severity: model.FlagMedium,
			})
		}
	}

	if bundle.Visual.ExcessiveGreen {
		flags = append(flags, model.RedFlag{
			Source:   "visual",
			Flag:     fmt.Sprintf("excessive green coloring (%.1f%%)", bundle.Visual.GreenPercentage),
			Severity: model.FlagMedium,
		})
	}

	return flags
}

// missingEvidence lists claims that require but lack support
func missingEvidence(claims []model.ClaimAnalysis, cfg *model.Config) []string {
	var missing []string
	for _, ca := range claims {
		if ca.Claim.CertificationToken != "" && ca.Verification.Status == model.StatusUnverified {
			missing = append(missing, fmt.Sprintf("claim %q references certification %q but none could be verified", ca.Claim.Text, ca.Claim.CertificationToken))
		}
		if ca.Claim.Vagueness > cfg.Thresholds.HighVagueness {
			missing = append(missing, fmt.Sprintf("claim %q lacks specific, measurable details", ca.Claim.Text))
		}
	}
	return missing
}

// recommendations generates consumer guidance keyed by severity band
func recommendations(band model.SeverityBand, types []model.DeceptionType) []string {
	var recs []string

	switch band {
	case model.BandTrustworthy:
		recs = append(recs,
			"claims appear trustworthy with verified environmental support",
			"certifications were checked against the legitimate-certification registry")
	case model.BandMinorConcerns:
		recs = append(recs,
			"minor concerns detected: some claims lack specific details",
			"request additional information from the manufacturer")
	case model.BandModerate:
		recs = append(recs,
			"moderate deception indicators present",
			"be skeptical of the environmental claims",
			"look for third-party certifications")
	case model.BandHigh:
		recs = append(recs,
			"high deception risk: multiple red flags",
			"avoid relying on these sustainability claims",
			"consider reporting misleading claims to consumer protection agencies")
	case model.BandSevere:
		recs = append(recs,
			"severe deception detected",
			"do not trust the environmental claims",
			"report to consumer protection authorities")
	}

	for _, t := range types {
		switch t {
		case model.DeceptionFakeCertifications:
			recs = append(recs, "fake or unverifiable certifications detected")
		case model.DeceptionVisual:
			recs = append(recs, "visual greenwashing through color or imagery")
		}
	}

	return recs
}
