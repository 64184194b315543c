package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the verdict for one claimed certification
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "VERIFIED"
	StatusUnverified VerificationStatus = "UNVERIFIED"
	StatusSuspicious VerificationStatus = "SUSPICIOUS"
	StatusFake       VerificationStatus = "FAKE"
)

// VerificationResult is the outcome of verifying one claimed certification
// against the knowledge graph
type VerificationResult struct {
	Status        VerificationStatus `json:"status"`
	MatchedEntity string             `json:"matched_entity,omitempty"` // Certification entity key
	Confidence    float64            `json:"confidence"`               // [0,1]
	Evidence      []string           `json:"evidence"`
}

// ClaimAnalysis pairs a claim with everything the engine found about it
type ClaimAnalysis struct {
	Claim        Claim              `json:"claim"`
	Verification VerificationResult `json:"verification"`

	// Contradictions holds graph-derived evidence conflicting with the
	// claim. Notes explains searches that could not run ("no company
	// context") or resolve, so an empty Contradictions is never silent.
	Contradictions        []string `json:"contradictions,omitempty"`
	Notes                 []string `json:"notes,omitempty"`
	ContradictionChecked  bool     `json:"contradiction_checked"`
	AbsoluteContradiction bool     `json:"absolute_contradiction,omitempty"`
}

// Dimension identifies one scoring dimension
type Dimension string

const (
	DimensionLinguistic     Dimension = "linguistic"
	DimensionVisual         Dimension = "visual"
	DimensionCertification  Dimension = "certification_verification"
	DimensionCrossReference Dimension = "kg_cross_reference"
)

// DimensionScore is one normalized dimension signal with the evidence
// that produced it. Substituted marks a neutral-midpoint fallback for a
// dimension that could not be computed.
type DimensionScore struct {
	Value       float64        `json:"value"` // [0,1]
	Evidence    []string       `json:"evidence,omitempty"`
	Substituted bool           `json:"substituted,omitempty"`
	Data        map[string]any `json:"data,omitempty"` // Transparent inputs and formula
}

// SeverityBand names a range of the 0-100 deception score
type SeverityBand string

const (
	BandTrustworthy   SeverityBand = "Trustworthy"
	BandMinorConcerns SeverityBand = "Minor Concerns"
	BandModerate      SeverityBand = "Moderate Deception"
	BandHigh          SeverityBand = "High Deception"
	BandSevere        SeverityBand = "Severe Deception"
)

// DeceptionType classifies the kind of deception detected
type DeceptionType string

const (
	DeceptionGreenwashing       DeceptionType = "greenwashing"
	DeceptionBrownwashing       DeceptionType = "brownwashing"
	DeceptionBluewashing        DeceptionType = "bluewashing"
	DeceptionFakeCertifications DeceptionType = "fake_certifications"
	DeceptionVagueClaims        DeceptionType = "vague_claims"
	DeceptionVisual             DeceptionType = "visual_greenwashing"
	DeceptionNone               DeceptionType = "none"
)

// RedFlagSeverity grades a red flag
type RedFlagSeverity string

const (
	FlagMedium   RedFlagSeverity = "medium"
	FlagHigh     RedFlagSeverity = "high"
	FlagCritical RedFlagSeverity = "critical"
)

// RedFlag is one specific issue surfaced by the analysis
type RedFlag struct {
	Source   string          `json:"source"` // claim_analysis, certification, visual
	Claim    string          `json:"claim,omitempty"`
	Flag     string          `json:"flag"`
	Severity RedFlagSeverity `json:"severity"`
}

// Advisory is an optional LLM-generated narrative summary.
// It is produced after scoring and never affects the score.
type Advisory struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// DeceptionReport is the complete analysis result for one ClaimBundle
type DeceptionReport struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"generated_at"`

	OverallScore float64      `json:"overall_score"` // [0,100]
	Severity     SeverityBand `json:"severity"`

	Dimensions map[Dimension]DimensionScore `json:"dimension_scores"`
	Claims     []ClaimAnalysis              `json:"claims"`

	PrimaryDeceptionType DeceptionType   `json:"primary_deception_type"`
	DeceptionTypes       []DeceptionType `json:"deception_types,omitempty"`
	RedFlags             []RedFlag       `json:"red_flags,omitempty"`
	MissingEvidence      []string        `json:"missing_evidence,omitempty"`
	Recommendations      []string        `json:"recommendations,omitempty"`

	// Notes records every non-default substitution or ambiguous verdict,
	// so no part of the score is silent
	Notes []string `json:"notes,omitempty"`

	Advisory *Advisory `json:"advisory,omitempty"`
}
