package score

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenveil/greenveil/internal/model"
)

// Aggregator combines dimension scores into the final 0-100 deception
// score and assembles the evidence-backed report. Weights and bands are
// validated once at construction, never per call.
type Aggregator struct {
	cfg  *model.Config
	dims []Dimension
}

// NewAggregator validates the configuration and wires the default
// dimension scorers. A *model.ConfigurationError here must abort
// startup.
func NewAggregator(cfg *model.Config) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{
		cfg: cfg,
		dims: []Dimension{
			NewLinguisticScorer(cfg),
			NewVisualScorer(),
			NewCertificationScorer(cfg),
			NewCrossReferenceScorer(),
		},
	}, nil
}

// weightFor returns the configured weight of a dimension
func (a *Aggregator) weightFor(d model.Dimension) float64 {
	switch d {
	case model.DimensionLinguistic:
		return a.cfg.Weights.Linguistic
	case model.DimensionVisual:
		return a.cfg.Weights.Visual
	case model.DimensionCertification:
		return a.cfg.Weights.Certification
	case model.DimensionCrossReference:
		return a.cfg.Weights.CrossReference
	}
	return 0
}

// Aggregate runs every dimension scorer over the analyzed bundle and
// produces the final report. A missing dimension never fails the
// aggregation; it is substituted with the neutral midpoint and the
// substitution is recorded in the report's notes.
func (a *Aggregator) Aggregate(bundle *model.ClaimBundle, claims []model.ClaimAnalysis) *model.DeceptionReport {
	in := Input{Bundle: bundle, Claims: claims}

	dimensions := make(map[model.Dimension]model.DimensionScore, len(a.dims))
	var notes []string
	overall := 0.0

	for _, d := range a.dims {
		ds := d.Score(in)
		dimensions[d.Name()] = ds
		overall += a.weightFor(d.Name()) * ds.Value
		if ds.Substituted {
			notes = append(notes, fmt.Sprintf("dimension %s: %s", d.Name(), ds.Evidence[0]))
		}
	}

	scaled := overall * 100
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 100 {
		scaled = 100
	}

	types := deceptionTypes(bundle, claims, a.cfg)
	band := a.cfg.BandFor(scaled)

	report := &model.DeceptionReport{
		ID:                   uuid.New(),
		Subject:              bundle.Subject,
		Company:              bundle.Company,
		CreatedAt:            time.Now().UTC(),
		OverallScore:         scaled,
		Severity:             band,
		Dimensions:           dimensions,
		Claims:               claims,
		PrimaryDeceptionType: primaryType(types),
		DeceptionTypes:       types,
		RedFlags:             redFlags(bundle, claims),
		MissingEvidence:      missingEvidence(claims, a.cfg),
		Recommendations:      recommendations(band, types),
		Notes:                notes,
	}

	for _, ca := range claims {
		report.Notes = append(report.Notes, ca.Notes...)
	}

	return report
}
