package score

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/greenveil/greenveil/internal/model"
)

func TestNewAggregator_RejectsInvalidWeights(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Weights.Linguistic = 0.5 // sum now 1.1

	_, err := NewAggregator(cfg)
	if err == nil {
		t.Fatal("Expected error for weights that do not sum to 1.0")
	}
	cfgErr, ok := err.(*model.ConfigurationError)
	if !ok {
		t.Fatalf("Expected *model.ConfigurationError, got %T", err)
	}
	if cfgErr.Field != "weights" {
		t.Errorf("Expected 'weights' field, got %q", cfgErr.Field)
	}
}

func TestNewAggregator_RejectsBandGap(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Bands[2].Low = 45 // gap between bands 1 and 2

	if _, err := NewAggregator(cfg); err == nil {
		t.Error("Expected error for gapped severity bands")
	}
}

func TestAggregate_WeightedSum(t *testing.T) {
	agg, err := NewAggregator(model.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	bundle := &model.ClaimBundle{
		Subject: "Product packaging",
		Company: "greenco",
		Claims:  []model.Claim{{Text: "Certified organic", Vagueness: 0.2, Specificity: 0.8, CertificationToken: "USDA Organic"}},
	}
	claims := []model.ClaimAnalysis{
		{
			Claim:                bundle.Claims[0],
			Verification:         model.VerificationResult{Status: model.StatusVerified, Confidence: 0.95},
			ContradictionChecked: true,
		},
	}

	report := agg.Aggregate(bundle, claims)
	if report.OverallScore < 0 || report.OverallScore > 100 {
		t.Errorf("Expected score in [0,100], got %v", report.OverallScore)
	}
	if len(report.Dimensions) != 4 {
		t.Errorf("Expected 4 dimensions, got %d", len(report.Dimensions))
	}
	if report.Severity == "" {
		t.Error("Expected a severity band")
	}
	if report.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected a generated report ID")
	}
}

func TestAggregate_SubstitutionRecordedInNotes(t *testing.T) {
	agg, err := NewAggregator(model.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	// Text-only bundle: visual dimension must substitute, never fail.
	bundle := &model.ClaimBundle{
		Claims: []model.Claim{{Text: "Eco-friendly", Vagueness: 0.8, Specificity: 0.1}},
	}
	claims := []model.ClaimAnalysis{
		{Claim: bundle.Claims[0], Verification: model.VerificationResult{Status: model.StatusUnverified}},
	}

	report := agg.Aggregate(bundle, claims)
	visual := report.Dimensions[model.DimensionVisual]
	if !visual.Substituted || visual.Value != 0.5 {
		t.Errorf("Expected visual dimension substituted at 0.5, got %+v", visual)
	}
	found := false
	for _, n := range report.Notes {
		if strings.Contains(n, "visual") && strings.Contains(n, "substituted neutral 0.5") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected substitution note, got %v", report.Notes)
	}
}

func TestAggregate_FakeCertificationSeverity(t *testing.T) {
	agg, err := NewAggregator(model.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	bundle := &model.ClaimBundle{
		Company: "shadyco",
		Claims:  []model.Claim{{Text: "Green Seal Pro certified, 100% natural", Vagueness: 0.9, Specificity: 0.1, CertificationToken: "Green Seal Pro"}},
	}
	claims := []model.ClaimAnalysis{
		{
			Claim:                bundle.Claims[0],
			Verification:         model.VerificationResult{Status: model.StatusFake, MatchedEntity: "green_seal_pro"},
			ContradictionChecked: true,
		},
	}

	report := agg.Aggregate(bundle, claims)
	if report.OverallScore < 60 {
		t.Errorf("Expected high score for fake certification with vague claims, got %v", report.OverallScore)
	}
	foundCritical := false
	for _, f := range report.RedFlags {
		if f.Severity == model.FlagCritical {
			foundCritical = true
		}
	}
	if !foundCritical {
		t.Errorf("Expected a critical red flag, got %v", report.RedFlags)
	}
	foundType := false
	for _, dt := range report.DeceptionTypes {
		if dt == model.DeceptionFakeCertifications {
			foundType = true
		}
	}
	if !foundType {
		t.Errorf("Expected fake_certifications deception type, got %v", report.DeceptionTypes)
	}
}

func TestDeceptionTypes_Categories(t *testing.T) {
	cfg := model.DefaultConfig()
	bundle := &model.ClaimBundle{Visual: model.VisualSignals{NatureImagery: true}}
	claims := []model.ClaimAnalysis{
		{Claim: model.Claim{Text: "Carbon neutral operations", Topic: "carbon"}},
		{Claim: model.Claim{Text: "Fully recyclable packaging", Topic: "packaging"}},
		{Claim: model.Claim{Text: "Fair labor practices", Topic: "labor"}},
	}

	types := deceptionTypes(bundle, claims, cfg)
	want := map[model.DeceptionType]bool{
		model.DeceptionGreenwashing: true,
		model.DeceptionBrownwashing: true,
		model.DeceptionBluewashing:  true,
		model.DeceptionVisual:       true,
	}
	if len(types) != len(want) {
		t.Fatalf("Expected %d types, got %v", len(want), types)
	}
	for _, dt := range types {
		if !want[dt] {
			t.Errorf("Unexpected deception type %s", dt)
		}
	}
}

func TestPrimaryType_Empty(t *testing.T) {
	if got := primaryType(nil); got != model.DeceptionNone {
		t.Errorf("Expected none, got %s", got)
	}
}

func TestMissingEvidence_UnverifiedCertification(t *testing.T) {
	cfg := model.DefaultConfig()
	claims := []model.ClaimAnalysis{
		{
			Claim:        model.Claim{Text: "EcoStar certified", CertificationToken: "EcoStar"},
			Verification: model.VerificationResult{Status: model.StatusUnverified},
		},
		{
			Claim:        model.Claim{Text: "Good for the planet", Vagueness: 0.9},
			Verification: model.VerificationResult{Status: model.StatusUnverified},
		},
	}

	missing := missingEvidence(claims, cfg)
	if len(missing) != 2 {
		t.Fatalf("Expected 2 missing-evidence entries, got %v", missing)
	}
	if !strings.Contains(missing[0], "EcoStar") {
		t.Errorf("Expected unverified certification entry, got %q", missing[0])
	}
	if !strings.Contains(missing[1], "measurable") {
		t.Errorf("Expected vagueness entry, got %q", missing[1])
	}
}

func TestRecommendations_BandSpecific(t *testing.T) {
	severe := recommendations(model.BandSevere, nil)
	trustworthy := recommendations(model.BandTrustworthy, nil)

	if len(severe) == 0 || len(trustworthy) == 0 {
		t.Fatal("Expected recommendations for every band")
	}
	if severe[0] == trustworthy[0] {
		t.Error("Expected band-specific guidance")
	}

	withFake := recommendations(model.BandSevere, []model.DeceptionType{model.DeceptionFakeCertifications})
	if len(withFake) <= len(severe) {
		t.Error("Expected type-specific guidance to be appended")
	}
}

func TestBandpartition_Property(t *testing.T) {
	cfg := model.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("every score in [0,100] maps to exactly one band", prop.ForAll(
		func(score float64) bool {
			band := cfg.BandFor(score)
			matches := 0
			for _, b := range cfg.Bands {
				if score >= b.Low && (score < b.High || (b.InclusiveHigh && score <= b.High)) {
					matches++
					if b.Name != band {
						return false
					}
				}
			}
			return matches == 1
		},
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestWeightedScore_Property(t *testing.T) {
	agg, err := NewAggregator(model.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("aggregated score stays within [0,100]", prop.ForAll(
		func(vagueness, specificity, visual float64) bool {
			bundle := &model.ClaimBundle{
				Claims: []model.Claim{{Text: "claim", Vagueness: vagueness, Specificity: specificity}},
				Visual: model.VisualSignals{Score: &visual},
			}
			claims := []model.ClaimAnalysis{
				{Claim: bundle.Claims[0], Verification: model.VerificationResult{Status: model.StatusUnverified}},
			}
			report := agg.Aggregate(bundle, claims)
			return report.OverallScore >= 0 && report.OverallScore <= 100
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
