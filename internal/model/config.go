package model

import (
	"fmt"
	"math"
	"time"
)

// ConfigurationError indicates an invalid engine configuration.
// It is fatal at startup and never raised at request time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// Weights are the fixed aggregation weights over scoring dimensions.
// They must sum to exactly 1.0.
type Weights struct {
	Linguistic     float64 `yaml:"linguistic"`
	Visual         float64 `yaml:"visual"`
	Certification  float64 `yaml:"certification_verification"`
	CrossReference float64 `yaml:"kg_cross_reference"`
}

// LinguisticWeights is the internal weighting of the linguistic dimension
type LinguisticWeights struct {
	Vagueness          float64 `yaml:"vagueness"`
	InverseSpecificity float64 `yaml:"inverse_specificity"`
	LexiconDensity     float64 `yaml:"lexicon_density"`
}

// Thresholds are the fuzzy-matching and trust cutoffs of the verifier
type Thresholds struct {
	FuzzyMatch    float64 `yaml:"fuzzy_match"`    // Minimum similarity for a verified match
	SuspiciousSim float64 `yaml:"suspicious_sim"` // Lower bound of the suspicious similarity window
	LowTrust      float64 `yaml:"low_trust"`      // trust_rating below this is low-trust
	AbsoluteFloor float64 `yaml:"absolute_floor"` // Graph score floor on absolute-claim contradiction
	HighVagueness float64 `yaml:"high_vagueness"` // Vagueness above this flags vague_claims
}

// Traversal bounds graph search cost
type Traversal struct {
	MaxHops        int `yaml:"max_hops"`        // Contradiction search depth
	ComplianceHops int `yaml:"compliance_hops"` // Company-to-certification compliance depth
	PathCap        int `yaml:"path_cap"`        // Max paths returned per search
}

// Band is one severity range. Low is inclusive; High is exclusive unless
// InclusiveHigh is set (final band only).
type Band struct {
	Name          SeverityBand `yaml:"name"`
	Low           float64      `yaml:"low"`
	High          float64      `yaml:"high"`
	InclusiveHigh bool         `yaml:"inclusive_high"`
}

// CacheConfig controls verification memoization
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// LLMConfig controls the optional advisory summary
type LLMConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`
	BaseURL   string `yaml:"base_url,omitempty"`
	MaxTokens int    `yaml:"max_tokens"`
}

// BatchConfig controls parallel batch analysis
type BatchConfig struct {
	Workers       int     `yaml:"workers"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// Config is the complete engine configuration. All weights, thresholds
// and band boundaries live here and are validated once at startup, never
// recomputed per call.
type Config struct {
	Weights    Weights           `yaml:"weights"`
	Linguistic LinguisticWeights `yaml:"linguistic_weights"`
	Thresholds Thresholds        `yaml:"thresholds"`
	Traversal  Traversal         `yaml:"traversal"`
	Bands      []Band            `yaml:"bands"`
	Cache      CacheConfig       `yaml:"cache"`
	LLM        LLMConfig         `yaml:"llm"`
	Batch      BatchConfig       `yaml:"batch"`
	Output     OutputConfig      `yaml:"output"`
}

// DefaultConfig returns the documented default configuration
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Linguistic:     0.40,
			Visual:         0.20,
			Certification:  0.30,
			CrossReference: 0.10,
		},
		Linguistic: LinguisticWeights{
			Vagueness:          0.5,
			InverseSpecificity: 0.3,
			LexiconDensity:     0.2,
		},
		Thresholds: Thresholds{
			FuzzyMatch:    0.75,
			SuspiciousSim: 0.5,
			LowTrust:      0.4,
			AbsoluteFloor: 0.8,
			HighVagueness: 0.7,
		},
		Traversal: Traversal{
			MaxHops:        3,
			ComplianceHops: 2,
			PathCap:        20,
		},
		Bands: []Band{
			{Name: BandTrustworthy, Low: 0, High: 20},
			{Name: BandMinorConcerns, Low: 20, High: 40},
			{Name: BandModerate, Low: 40, High: 60},
			{Name: BandHigh, Low: 60, High: 80},
			{Name: BandSevere, Low: 80, High: 100, InclusiveHigh: true},
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: 15 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
		},
		Batch: BatchConfig{
			Workers:       4,
			RatePerSecond: 10,
			Burst:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

const weightEpsilon = 1e-9

// Validate checks the configuration invariants. Any error here is a
// *ConfigurationError and must abort startup before serving requests.
func (c *Config) Validate() error {
	sum := c.Weights.Linguistic + c.Weights.Visual + c.Weights.Certification + c.Weights.CrossReference
	if math.Abs(sum-1.0) > weightEpsilon {
		return &ConfigurationError{
			Field:  "weights",
			Reason: fmt.Sprintf("dimension weights sum to %.6f, want 1.0", sum),
		}
	}

	lsum := c.Linguistic.Vagueness + c.Linguistic.InverseSpecificity + c.Linguistic.LexiconDensity
	if math.Abs(lsum-1.0) > weightEpsilon {
		return &ConfigurationError{
			Field:  "linguistic_weights",
			Reason: fmt.Sprintf("linguistic sub-weights sum to %.6f, want 1.0", lsum),
		}
	}

	if len(c.Bands) == 0 {
		return &ConfigurationError{Field: "bands", Reason: "no severity bands defined"}
	}
	if c.Bands[0].Low != 0 {
		return &ConfigurationError{Field: "bands", Reason: "first band must start at 0"}
	}
	for i, b := range c.Bands {
		if b.High <= b.Low {
			return &ConfigurationError{
				Field:  "bands",
				Reason: fmt.Sprintf("band %q has empty range [%.0f,%.0f)", b.Name, b.Low, b.High),
			}
		}
		if i > 0 && b.Low != c.Bands[i-1].High {
			return &ConfigurationError{
				Field:  "bands",
				Reason: fmt.Sprintf("gap or overlap between %q and %q", c.Bands[i-1].Name, b.Name),
			}
		}
	}
	last := c.Bands[len(c.Bands)-1]
	if last.High != 100 || !last.InclusiveHigh {
		return &ConfigurationError{Field: "bands", Reason: "bands must cover [0,100] with an inclusive final bound"}
	}

	if c.Thresholds.FuzzyMatch <= 0 || c.Thresholds.FuzzyMatch > 1 {
		return &ConfigurationError{Field: "thresholds.fuzzy_match", Reason: "must be in (0,1]"}
	}
	if c.Thresholds.SuspiciousSim >= c.Thresholds.FuzzyMatch {
		return &ConfigurationError{Field: "thresholds.suspicious_sim", Reason: "must be below fuzzy_match"}
	}
	if c.Traversal.MaxHops <= 0 || c.Traversal.ComplianceHops <= 0 || c.Traversal.PathCap <= 0 {
		return &ConfigurationError{Field: "traversal", Reason: "hop and path caps must be positive"}
	}

	return nil
}

// BandFor maps a score to its severity band. Scores outside [0,100] are
// clamped first.
func (c *Config) BandFor(score float64) SeverityBand {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	for _, b := range c.Bands {
		if score >= b.Low && (score < b.High || (b.InclusiveHigh && score <= b.High)) {
			return b.Name
		}
	}
	// Unreachable after Validate
	return c.Bands[len(c.Bands)-1].Name
}
