// Package kb loads the reference data the engine verifies against:
// certifications, regulatory substance lists, standards and company ESG
// records. Reference data is immutable at runtime; malformed records are
// skipped with a warning, never fatal.
package kb

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/greenveil/greenveil/internal/graph"
	"github.com/greenveil/greenveil/internal/model"
)

// LoadError describes one malformed reference-data record. Load errors
// are accumulated as warnings; loading continues past them.
type LoadError struct {
	Section string // "entities" or "relationships"
	Index   int
	Reason  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", e.Section, e.Index, e.Reason)
}

// EntityRecord is the wire form of one entity in a knowledge-base file
type EntityRecord struct {
	Key   string         `yaml:"key" validate:"required"`
	Kind  string         `yaml:"kind" validate:"required,oneof=Company Certification Standard Substance ClaimTopic"`
	Name  string         `yaml:"name"`
	Attrs map[string]any `yaml:"attrs"`
}

// RelationshipRecord is the wire form of one edge in a knowledge-base file
type RelationshipRecord struct {
	From       string  `yaml:"from" validate:"required"`
	To         string  `yaml:"to" validate:"required"`
	Type       string  `yaml:"type" validate:"required,oneof=CLAIMS VERIFIES COMPLIES_WITH CONTAINS VIOLATES"`
	Confidence float64 `yaml:"confidence" validate:"gte=0,lte=1"`
	Source     string  `yaml:"source"`
}

// Document is the top-level structure of a knowledge-base YAML file
type Document struct {
	Entities      []EntityRecord       `yaml:"entities"`
	Relationships []RelationshipRecord `yaml:"relationships"`
}

// Store holds loaded reference data plus the warnings accumulated while
// loading it
type Store struct {
	Entities      []model.Entity
	Relationships []model.Relationship
	Warnings      []string
}

// WarningCount returns the number of records skipped during load
func (s *Store) WarningCount() int {
	return len(s.Warnings)
}

var recordValidator = validator.New(validator.WithRequiredStructEnabled())

// Load reads a knowledge-base document. A document that cannot be parsed
// at all is an error; individual malformed records are skipped and
// surfaced via Store.Warnings.
func Load(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}

	store := &Store{}
	for i, rec := range doc.Entities {
		if err := recordValidator.Struct(rec); err != nil {
			le := &LoadError{Section: "entities", Index: i, Reason: err.Error()}
			store.Warnings = append(store.Warnings, le.Error())
			continue
		}
		kind, _ := model.ParseEntityKind(rec.Kind)
		if rating, ok := (&model.Entity{Attrs: rec.Attrs}).TrustRating(); ok && (rating < 0 || rating > 1) {
			le := &LoadError{Section: "entities", Index: i, Reason: fmt.Sprintf("entity %q trust_rating %.2f outside [0,1]", rec.Key, rating)}
			store.Warnings = append(store.Warnings, le.Error())
			continue
		}
		store.Entities = append(store.Entities, model.Entity{
			Key:   rec.Key,
			Kind:  kind,
			Name:  rec.Name,
			Attrs: rec.Attrs,
		})
	}

	for i, rec := range doc.Relationships {
		if err := recordValidator.Struct(rec); err != nil {
			le := &LoadError{Section: "relationships", Index: i, Reason: err.Error()}
			store.Warnings = append(store.Warnings, le.Error())
			continue
		}
		relType, _ := model.ParseRelationType(rec.Type)
		store.Relationships = append(store.Relationships, model.Relationship{
			From:       rec.From,
			To:         rec.To,
			Type:       relType,
			Confidence: rec.Confidence,
			Source:     rec.Source,
		})
	}

	return store, nil
}

// LoadFile loads a knowledge-base document from disk
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// BuildIndex builds the graph index from the store. Duplicate entities
// and dangling relationships are skipped and appended to Store.Warnings,
// matching the skip-and-continue load contract.
func (s *Store) BuildIndex(sim graph.Similarity) *graph.Index {
	ix := graph.New(sim)

	for _, e := range s.Entities {
		if err := ix.AddEntity(e); err != nil {
			s.Warnings = append(s.Warnings, fmt.Sprintf("entity %q: %v", e.Key, err))
		}
	}
	for _, r := range s.Relationships {
		if err := ix.AddRelationship(r); err != nil {
			s.Warnings = append(s.Warnings, fmt.Sprintf("relationship %s-[%s]->%s: %v", r.From, r.Type, r.To, err))
		}
	}

	return ix
}
