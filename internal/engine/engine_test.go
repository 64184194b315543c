package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/greenveil/greenveil/internal/model"
)

const testKB = `
entities:
  - key: greenco
    kind: Company
    name: GreenCo
  - key: usda_organic
    kind: Certification
    name: USDA Organic
    attrs:
      trust_rating: 0.95
      issuer: USDA
  - key: eco_cert_plus
    kind: Certification
    name: Eco Cert Plus
    attrs:
      trust_rating: 0.2
  - key: pfoa
    kind: Substance
    name: PFOA
    attrs:
      banned_under:
        - epa_tsca
  - key: epa_tsca
    kind: Standard
    name: EPA TSCA
relationships:
  - from: greenco
    to: usda_organic
    type: COMPLIES_WITH
    confidence: 0.9
  - from: greenco
    to: pfoa
    type: CONTAINS
    confidence: 0.85
  - from: pfoa
    to: epa_tsca
    type: VIOLATES
    confidence: 0.95
`

func testEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(model.DefaultConfig())
	if err != nil {
		t.Fatalf("Expected engine construction to succeed, got %v", err)
	}
	warnings, err := eng.Refresh(strings.NewReader(testKB))
	if err != nil {
		t.Fatalf("Expected refresh to succeed, got %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Expected clean fixture, got warnings %v", warnings)
	}
	return eng
}

func TestEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Weights.Linguistic = 0.7

	if _, err := New(cfg); err == nil {
		t.Error("Expected invalid weights to fail engine construction")
	}
}

func TestEngine_AnalyzeWithoutKnowledgeBase(t *testing.T) {
	eng, err := New(model.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	_, err = eng.Analyze(context.Background(), &model.ClaimBundle{})
	if err == nil {
		t.Error("Expected error before any knowledge base is loaded")
	}
}

func TestEngine_VerifiedClaimWithoutCompany(t *testing.T) {
	eng := testEngine(t)

	bundle := &model.ClaimBundle{
		Subject: "cereal box",
		Claims: []model.Claim{{
			Text:               "100% organic ingredients",
			Topic:              "organic",
			CertificationToken: "USDA Organic",
			Vagueness:          0.3,
			Specificity:        0.7,
		}},
	}

	report, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Expected analysis to succeed, got %v", err)
	}

	ca := report.Claims[0]
	if ca.Verification.Status != model.StatusVerified {
		t.Fatalf("Expected VERIFIED, got %s: %v", ca.Verification.Status, ca.Verification.Evidence)
	}
	if ca.ContradictionChecked {
		t.Error("Expected contradiction check skipped without company context")
	}
	noteFound := false
	for _, n := range ca.Notes {
		if strings.Contains(n, "no company context") {
			noteFound = true
		}
	}
	if !noteFound {
		t.Errorf("Expected a no-company-context note, got %v", ca.Notes)
	}
	if report.OverallScore >= 40 {
		t.Errorf("Expected verified bundle to stay below Moderate Deception, got %v", report.OverallScore)
	}
	if report.Severity != model.BandTrustworthy && report.Severity != model.BandMinorConcerns {
		t.Errorf("Expected Trustworthy or Minor Concerns, got %s", report.Severity)
	}
}

func TestEngine_VagueUnverifiedClaim(t *testing.T) {
	eng := testEngine(t)

	bundle := &model.ClaimBundle{
		Claims: []model.Claim{{
			Text:        "eco-friendly",
			Vagueness:   0.9,
			Specificity: 0.1,
		}},
	}

	report, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}

	if report.Claims[0].Verification.Status != model.StatusUnverified {
		t.Errorf("Expected UNVERIFIED without certification token, got %s", report.Claims[0].Verification.Status)
	}
	if report.OverallScore < 40 {
		t.Errorf("Expected vague unverified claim to score >= 40, got %v", report.OverallScore)
	}
	foundVague := false
	for _, dt := range report.DeceptionTypes {
		if dt == model.DeceptionVagueClaims {
			foundVague = true
		}
	}
	if !foundVague {
		t.Errorf("Expected vague_claims deception type, got %v", report.DeceptionTypes)
	}
}

func TestEngine_SuspiciousSoundAlikeCertification(t *testing.T) {
	eng := testEngine(t)

	bundle := &model.ClaimBundle{
		Claims: []model.Claim{{
			Text:               "Eco-Certified Plus approved",
			CertificationToken: "Eco-Certified Plus",
			Vagueness:          0.5,
			Specificity:        0.5,
		}},
	}

	report, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}

	v := report.Claims[0].Verification
	if v.Status != model.StatusSuspicious {
		t.Fatalf("Expected SUSPICIOUS for sound-alike certification, got %s: %v", v.Status, v.Evidence)
	}
	if v.MatchedEntity != "eco_cert_plus" {
		t.Errorf("Expected match against eco_cert_plus, got %s", v.MatchedEntity)
	}
	// Confidence is similarity * trust_rating with trust 0.2.
	if v.Confidence <= 0 || v.Confidence > 0.2 {
		t.Errorf("Expected confidence in (0,0.2], got %v", v.Confidence)
	}
}

func TestEngine_AbsoluteClaimAgainstViolationRecord(t *testing.T) {
	eng := testEngine(t)

	bundle := &model.ClaimBundle{
		Company: "greenco",
		Claims: []model.Claim{{
			Text:        "We never use PFOA",
			Topic:       "PFOA",
			Vagueness:   0.6,
			Specificity: 0.2,
		}},
	}

	report, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}

	ca := report.Claims[0]
	if !ca.ContradictionChecked {
		t.Fatal("Expected contradiction check to run with company context")
	}
	if !ca.AbsoluteContradiction {
		t.Fatalf("Expected absolute_claim_contradiction, got contradictions %v", ca.Contradictions)
	}

	cert := report.Dimensions[model.DimensionCertification]
	if cert.Value < 0.8 {
		t.Errorf("Expected graph-verification dimension floored at 0.8, got %v", cert.Value)
	}
	if report.OverallScore < 60 {
		t.Errorf("Expected overall score >= 60, got %v", report.OverallScore)
	}
	foundFlag := false
	for _, f := range report.RedFlags {
		if strings.Contains(f.Flag, "absolute claim contradicted") {
			foundFlag = true
		}
	}
	if !foundFlag {
		t.Errorf("Expected an absolute-contradiction red flag, got %v", report.RedFlags)
	}
}

func TestEngine_VisuallyDetectedCertification(t *testing.T) {
	eng := testEngine(t)

	// A logo-detected mark with no matching textual claim still gets
	// verified as a synthetic claim.
	bundle := &model.ClaimBundle{
		Certifications: []model.CertificationToken{{Text: "USDA Organic", Confidence: 0.88}},
	}

	report, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Claims) != 1 {
		t.Fatalf("Expected 1 synthetic claim analysis, got %d", len(report.Claims))
	}
	ca := report.Claims[0]
	if ca.Verification.Status != model.StatusVerified {
		t.Errorf("Expected VERIFIED, got %s", ca.Verification.Status)
	}
	noteFound := false
	for _, n := range ca.Notes {
		if strings.Contains(n, "detected visually") {
			noteFound = true
		}
	}
	if !noteFound {
		t.Errorf("Expected visual-detection note, got %v", ca.Notes)
	}
}

func TestEngine_VisualTokenCoveredByClaim(t *testing.T) {
	eng := testEngine(t)

	// The visual token duplicates the claim's certification; no
	// synthetic analysis is added.
	bundle := &model.ClaimBundle{
		Claims: []model.Claim{{
			Text:               "USDA Organic certified",
			CertificationToken: "USDA Organic",
		}},
		Certifications: []model.CertificationToken{{Text: "USDA Organic", Confidence: 0.9}},
	}

	report, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Claims) != 1 {
		t.Errorf("Expected duplicate token to be skipped, got %d analyses", len(report.Claims))
	}
}

func TestEngine_VisualSignalsScored(t *testing.T) {
	eng := testEngine(t)

	raw := 0.9
	bundle := &model.ClaimBundle{
		Claims: []model.Claim{{Text: "so green", Vagueness: 0.8, Specificity: 0.1}},
		Visual: model.VisualSignals{Score: &raw, ExcessiveGreen: true, GreenPercentage: 81.0},
	}

	report, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}
	visual := report.Dimensions[model.DimensionVisual]
	if visual.Substituted {
		t.Error("Expected supplied visual score, not a substitution")
	}
	if visual.Value != 0.9 {
		t.Errorf("Expected visual dimension 0.9, got %v", visual.Value)
	}
	foundVisualType := false
	for _, dt := range report.DeceptionTypes {
		if dt == model.DeceptionVisual {
			foundVisualType = true
		}
	}
	if !foundVisualType {
		t.Errorf("Expected visual_greenwashing type, got %v", report.DeceptionTypes)
	}
}

func TestEngine_RefreshSwapsSnapshot(t *testing.T) {
	eng := testEngine(t)

	bundle := &model.ClaimBundle{
		Claims: []model.Claim{{Text: "certified", CertificationToken: "USDA Organic"}},
	}

	before, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}
	if before.Claims[0].Verification.Status != model.StatusVerified {
		t.Fatalf("Expected VERIFIED before refresh, got %s", before.Claims[0].Verification.Status)
	}

	// The replacement knowledge base no longer contains the certification.
	empty := `
entities:
  - key: other_cert
    kind: Certification
    name: Something Else
`
	if _, err := eng.Refresh(strings.NewReader(empty)); err != nil {
		t.Fatal(err)
	}

	after, err := eng.Analyze(context.Background(), bundle)
	if err != nil {
		t.Fatal(err)
	}
	if after.Claims[0].Verification.Status != model.StatusUnverified {
		t.Errorf("Expected UNVERIFIED after snapshot swap, got %s", after.Claims[0].Verification.Status)
	}
}

func TestEngine_RefreshReportsWarnings(t *testing.T) {
	eng, err := New(model.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	doc := `
entities:
  - key: greenco
    kind: Company
relationships:
  - from: greenco
    to: ghost
    type: COMPLIES_WITH
    confidence: 0.9
`
	warnings, err := eng.Refresh(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Expected refresh to tolerate dangling records, got %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", warnings)
	}
	if got := eng.Warnings(); len(got) != 1 {
		t.Errorf("Expected snapshot to retain warnings, got %v", got)
	}
}

func TestEngine_IndexAccess(t *testing.T) {
	eng, err := New(model.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if eng.Index() != nil {
		t.Error("Expected nil index before refresh")
	}

	if _, err := eng.Refresh(strings.NewReader(testKB)); err != nil {
		t.Fatal(err)
	}
	idx := eng.Index()
	if idx == nil {
		t.Fatal("Expected index after refresh")
	}
	if idx.EntityCount() != 5 {
		t.Errorf("Expected 5 entities, got %d", idx.EntityCount())
	}
}
