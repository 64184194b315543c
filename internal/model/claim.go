package model

// Claim is a single extracted sustainability assertion.
// Claims arrive pre-segmented from an upstream extraction collaborator;
// the engine consumes them read-only.
type Claim struct {
	Text               string  `json:"text"`
	Topic              string  `json:"topic,omitempty"`               // ClaimTopic key or free topic text
	CertificationToken string  `json:"certification_token,omitempty"` // Claimed certification name, if any
	Specificity        float64 `json:"specificity_score"`             // [0,1], externally computed
	Vagueness          float64 `json:"vagueness_score"`               // [0,1], externally computed
	TemporalMarker     string  `json:"temporal_marker,omitempty"`     // e.g. "by 2050"
}

// CertificationToken is a certification mark detected visually
// (logo detection), with its detector confidence
type CertificationToken struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// VisualSignals carries the externally computed visual-indicator evidence.
// Score is the upstream detector's deception signal in [0,1]; a nil Score
// means the dimension was not computed (text-only input).
type VisualSignals struct {
	Score           *float64 `json:"score,omitempty"`
	ExcessiveGreen  bool     `json:"excessive_green,omitempty"`
	NatureImagery   bool     `json:"nature_imagery,omitempty"`
	GreenPercentage float64  `json:"green_percentage,omitempty"`
}

// ClaimBundle is one analyzed item: the ordered claims extracted from it,
// the certification marks detected on it, and its visual indicators.
// Bundles are immutable once constructed by the caller.
type ClaimBundle struct {
	Subject        string               `json:"subject,omitempty"`
	Company        string               `json:"company,omitempty"` // Company entity key; empty for unattributed claims
	Claims         []Claim              `json:"claims"`
	Certifications []CertificationToken `json:"certifications,omitempty"`
	Visual         VisualSignals        `json:"visual"`
}
