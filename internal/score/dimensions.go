// Package score turns per-claim verification evidence into normalized
// dimension signals and aggregates them into the final deception score.
package score

import (
	"fmt"
	"strings"

	"github.com/greenveil/greenveil/internal/model"
)

// Input is everything a dimension scorer may consult
type Input struct {
	Bundle *model.ClaimBundle
	Claims []model.ClaimAnalysis
}

// Dimension scores one signal in [0,1] with the evidence that produced
// it. Higher is more deceptive. New dimensions plug in here without
// touching the aggregator.
type Dimension interface {
	Name() model.Dimension
	Score(in Input) model.DimensionScore
}

// hypeLexicon are unqualified sustainability buzzwords. Density of hits
// feeds the linguistic dimension.
var hypeLexicon = []string{
	"eco-friendly", "eco friendly", "green", "natural", "sustainable",
	"earth-friendly", "environmentally friendly", "non-toxic",
	"chemical-free", "chemical free", "pure", "clean", "biodegradable",
	"carbon neutral", "recyclable", "organic", "100%", "zero",
	"completely", "never", "always",
}

// LinguisticScorer combines externally supplied vagueness and
// specificity with hype-lexicon density
type LinguisticScorer struct {
	weights model.LinguisticWeights
}

// NewLinguisticScorer creates the linguistic dimension
func NewLinguisticScorer(cfg *model.Config) *LinguisticScorer {
	return &LinguisticScorer{weights: cfg.Linguistic}
}

func (s *LinguisticScorer) Name() model.Dimension { return model.DimensionLinguistic }

func (s *LinguisticScorer) Score(in Input) model.DimensionScore {
	if len(in.Bundle.Claims) == 0 {
		return neutral("no claims in bundle")
	}

	var total float64
	var evidence []string
	for _, c := range in.Bundle.Claims {
		density := lexiconDensity(c.Text)
		value := s.weights.Vagueness*clamp01(c.Vagueness) +
			s.weights.InverseSpecificity*(1-clamp01(c.Specificity)) +
			s.weights.LexiconDensity*density
		total += value
		if density > 0 {
			evidence = append(evidence, fmt.Sprintf("claim %q: hype-lexicon density %.2f", c.Text, density))
		}
	}
	value := clamp01(total / float64(len(in.Bundle.Claims)))

	return model.DimensionScore{
		Value:    value,
		Evidence: evidence,
		Data: map[string]any{
			"claims":  len(in.Bundle.Claims),
			"formula": fmt.Sprintf("avg(%.2f*vagueness + %.2f*(1-specificity) + %.2f*lexicon_density)", s.weights.Vagueness, s.weights.InverseSpecificity, s.weights.LexiconDensity),
		},
	}
}

// lexiconDensity counts distinct lexicon hits, saturating at four
func lexiconDensity(text string) float64 {
	lower := strings.ToLower(text)
	hits := 0
	for _, term := range hypeLexicon {
		if strings.Contains(lower, term) {
			hits++
		}
	}
	return clamp01(float64(hits) * 0.25)
}

// VisualScorer passes through the externally computed visual-indicator
// score, clamped to [0,1]
type VisualScorer struct{}

// NewVisualScorer creates the visual dimension
func NewVisualScorer() *VisualScorer { return &VisualScorer{} }

func (s *VisualScorer) Name() model.Dimension { return model.DimensionVisual }

func (s *VisualScorer) Score(in Input) model.DimensionScore {
	if in.Bundle.Visual.Score == nil {
		return neutral("no visual indicator score supplied (text-only bundle)")
	}
	value := clamp01(*in.Bundle.Visual.Score)
	var evidence []string
	if in.Bundle.Visual.ExcessiveGreen {
		evidence = append(evidence, fmt.Sprintf("excessive green coloring (%.1f%%)", in.Bundle.Visual.GreenPercentage))
	}
	if in.Bundle.Visual.NatureImagery {
		evidence = append(evidence, "nature imagery detected")
	}
	return model.DimensionScore{
		Value:    value,
		Evidence: evidence,
		Data:     map[string]any{"raw": *in.Bundle.Visual.Score},
	}
}

// CertificationScorer derives the graph-verification signal from
// verification statuses and contradiction findings. Any FAKE status
// forces 1.0; an absolute-claim contradiction floors the score at the
// configured bound.
type CertificationScorer struct {
	cfg *model.Config
}

// NewCertificationScorer creates the certification-verification dimension
func NewCertificationScorer(cfg *model.Config) *CertificationScorer {
	return &CertificationScorer{cfg: cfg}
}

func (s *CertificationScorer) Name() model.Dimension { return model.DimensionCertification }

// statusBase is the per-status deception contribution
func statusBase(status model.VerificationStatus) float64 {
	switch status {
	case model.StatusVerified:
		return 0.1
	case model.StatusSuspicious:
		return 0.6
	case model.StatusFake:
		return 1.0
	default: // UNVERIFIED
		return 0.5
	}
}

func (s *CertificationScorer) Score(in Input) model.DimensionScore {
	if len(in.Claims) == 0 {
		return neutral("no claims to verify")
	}

	var total float64
	var evidence []string
	anyFake := false
	absolute := false

	for _, ca := range in.Claims {
		base := statusBase(ca.Verification.Status)
		if ca.Verification.Status == model.StatusFake {
			anyFake = true
		}
		if ca.AbsoluteContradiction {
			absolute = true
		}
		bump := clamp01(float64(len(ca.Contradictions)) * 0.15)
		if ca.ContradictionChecked && len(ca.Contradictions) > 0 {
			evidence = append(evidence, ca.Contradictions...)
		}
		total += clamp01(base + bump)
		evidence = append(evidence, fmt.Sprintf("claim %q: certification status %s", ca.Claim.Text, ca.Verification.Status))
	}

	value := clamp01(total / float64(len(in.Claims)))
	if absolute && value < s.cfg.Thresholds.AbsoluteFloor {
		value = s.cfg.Thresholds.AbsoluteFloor
		evidence = append(evidence, fmt.Sprintf("absolute-claim contradiction: score floored at %.2f", s.cfg.Thresholds.AbsoluteFloor))
	}
	if anyFake {
		value = 1.0
		evidence = append(evidence, "fake certification detected: score forced to 1.0")
	}

	return model.DimensionScore{
		Value:    value,
		Evidence: evidence,
		Data: map[string]any{
			"formula": "avg(status_base + 0.15*contradictions); FAKE=>1.0; absolute contradiction floors score",
		},
	}
}

// CrossReferenceScorer measures how well the bundle's claims reconcile
// with the knowledge graph overall: verified claims pull the score down,
// unverified claims and contradictions push it up
type CrossReferenceScorer struct{}

// NewCrossReferenceScorer creates the knowledge-graph cross-reference dimension
func NewCrossReferenceScorer() *CrossReferenceScorer { return &CrossReferenceScorer{} }

func (s *CrossReferenceScorer) Name() model.Dimension { return model.DimensionCrossReference }

func (s *CrossReferenceScorer) Score(in Input) model.DimensionScore {
	if len(in.Claims) == 0 {
		return neutral("no claims to cross-reference")
	}

	verified := 0
	unverified := 0
	contradictions := 0
	for _, ca := range in.Claims {
		switch ca.Verification.Status {
		case model.StatusVerified:
			verified++
		case model.StatusUnverified, model.StatusSuspicious, model.StatusFake:
			unverified++
		}
		contradictions += len(ca.Contradictions)
	}

	total := float64(len(in.Claims))
	value := 0.5
	value -= (float64(verified) / total) * 0.3
	value += (float64(unverified) / total) * 0.2
	value += float64(contradictions) * 0.15
	value = clamp01(value)

	return model.DimensionScore{
		Value: value,
		Evidence: []string{
			fmt.Sprintf("%d/%d claims verified, %d unresolved, %d contradiction record(s)", verified, len(in.Claims), unverified, contradictions),
		},
		Data: map[string]any{
			"verified":       verified,
			"unverified":     unverified,
			"contradictions": contradictions,
			"formula":        "0.5 - 0.3*verified_ratio + 0.2*unverified_ratio + 0.15*contradictions",
		},
	}
}

// neutral is the midpoint substitution for a dimension that could not be
// computed. The substitution is always recorded in evidence; silent
// scoring is disallowed.
func neutral(reason string) model.DimensionScore {
	return model.DimensionScore{
		Value:       0.5,
		Substituted: true,
		Evidence:    []string{fmt.Sprintf("substituted neutral 0.5: %s", reason)},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
