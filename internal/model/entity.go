package model

// EntityKind classifies a knowledge-graph entity
type EntityKind string

const (
	KindCompany       EntityKind = "Company"
	KindCertification EntityKind = "Certification"
	KindStandard      EntityKind = "Standard"
	KindSubstance     EntityKind = "Substance"
	KindClaimTopic    EntityKind = "ClaimTopic"
)

// ParseEntityKind converts a string to an EntityKind, reporting whether it is known
func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case KindCompany, KindCertification, KindStandard, KindSubstance, KindClaimTopic:
		return EntityKind(s), true
	}
	return "", false
}

// Entity is a node in the knowledge graph.
// Attrs are free-form and kind-dependent: a Certification carries
// issuer, trust_rating, verification_url and criteria; a Substance
// carries banned_under (list of regulator codes).
type Entity struct {
	Key   string         `json:"key" yaml:"key"`
	Kind  EntityKind     `json:"kind" yaml:"kind"`
	Name  string         `json:"name" yaml:"name"`
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// DisplayName returns the human-readable name, falling back to the key
func (e *Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Key
}

// TrustRating returns the trust_rating attribute, reporting whether it was set.
// Absent or malformed ratings are treated by callers as a neutral 0.5.
func (e *Entity) TrustRating() (float64, bool) {
	return e.FloatAttr("trust_rating")
}

// FloatAttr reads a numeric attribute, tolerating the int/float ambiguity
// of YAML decoding
func (e *Entity) FloatAttr(name string) (float64, bool) {
	v, ok := e.Attrs[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// BoolAttr reads a boolean attribute, defaulting to false
func (e *Entity) BoolAttr(name string) bool {
	v, ok := e.Attrs[name]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// StringAttr reads a string attribute, defaulting to ""
func (e *Entity) StringAttr(name string) string {
	v, ok := e.Attrs[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// StringListAttr reads a list attribute as strings (e.g. banned_under)
func (e *Entity) StringListAttr(name string) []string {
	v, ok := e.Attrs[name]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		// Already decoded as []string in some paths
		if ss, ok := v.([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Questionable reports whether the entity is flagged in the
// questionable/fake registry
func (e *Entity) Questionable() bool {
	return e.BoolAttr("questionable")
}

// RelationType is the type of a directed edge between two entities
type RelationType string

const (
	RelationClaims       RelationType = "CLAIMS"
	RelationVerifies     RelationType = "VERIFIES"
	RelationCompliesWith RelationType = "COMPLIES_WITH"
	RelationContains     RelationType = "CONTAINS"
	RelationViolates     RelationType = "VIOLATES"
)

// ParseRelationType converts a string to a RelationType, reporting whether it is known
func ParseRelationType(s string) (RelationType, bool) {
	switch RelationType(s) {
	case RelationClaims, RelationVerifies, RelationCompliesWith, RelationContains, RelationViolates:
		return RelationType(s), true
	}
	return "", false
}

// Relationship is a directed typed edge between two entities.
// Multiple relationships of different types may exist between the same pair.
type Relationship struct {
	From       string       `json:"from" yaml:"from"`
	To         string       `json:"to" yaml:"to"`
	Type       RelationType `json:"type" yaml:"type"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	Source     string       `json:"source,omitempty" yaml:"source,omitempty"`
}
