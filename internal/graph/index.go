package graph

import (
	"fmt"
	"sort"

	"github.com/greenveil/greenveil/internal/model"
)

// UnknownEntityError indicates a reference to an entity that is not in
// the graph (referential integrity violation)
type UnknownEntityError struct {
	Key string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity: %q", e.Key)
}

// Neighbor is one adjacent entity together with the relationship that
// connects it
type Neighbor struct {
	Entity   *model.Entity
	Rel      model.Relationship
	Outgoing bool
}

// Path is a cycle-free chain of entities connected by relationships.
// len(Rels) == len(Keys)-1.
type Path struct {
	Keys []string
	Rels []model.Relationship
}

// Hops returns the number of edges in the path
func (p Path) Hops() int {
	return len(p.Rels)
}

// End returns the key of the last entity on the path
func (p Path) End() string {
	return p.Keys[len(p.Keys)-1]
}

// Match is one fuzzy-lookup result
type Match struct {
	Entity     *model.Entity
	Similarity float64
}

// Index is the in-memory relationship graph over knowledge-base entities.
// It is built once and then read concurrently without mutation; a refresh
// builds a whole new Index and swaps it atomically (see engine).
type Index struct {
	entities map[string]*model.Entity
	byKind   map[model.EntityKind][]*model.Entity
	outgoing map[string][]model.Relationship
	incoming map[string][]model.Relationship
	relCount int
	sim      Similarity
}

// New creates an empty index. A nil similarity falls back to the default
// token matcher.
func New(sim Similarity) *Index {
	if sim == nil {
		sim = NewTokenSimilarity()
	}
	return &Index{
		entities: make(map[string]*model.Entity),
		byKind:   make(map[model.EntityKind][]*model.Entity),
		outgoing: make(map[string][]model.Relationship),
		incoming: make(map[string][]model.Relationship),
		sim:      sim,
	}
}

// AddEntity inserts an entity. Keys must be unique across kinds:
// relationships address endpoints by key alone, so a key shared between
// two kinds would make edge resolution ambiguous. A duplicate is
// rejected and left to the loader to surface as a warning.
func (ix *Index) AddEntity(e model.Entity) error {
	if e.Key == "" {
		return fmt.Errorf("entity has empty key")
	}
	if _, ok := model.ParseEntityKind(string(e.Kind)); !ok {
		return fmt.Errorf("entity %q has unknown kind %q", e.Key, e.Kind)
	}
	if existing, ok := ix.entities[e.Key]; ok {
		if existing.Kind == e.Kind {
			return fmt.Errorf("duplicate entity %q (kind %s)", e.Key, e.Kind)
		}
		return fmt.Errorf("entity key %q already used by kind %s; relationship endpoints resolve by key", e.Key, existing.Kind)
	}
	stored := e
	ix.entities[e.Key] = &stored
	ix.byKind[e.Kind] = append(ix.byKind[e.Kind], &stored)
	return nil
}

// AddRelationship inserts a directed typed edge. Both endpoints must
// already exist; otherwise an *UnknownEntityError is returned.
func (ix *Index) AddRelationship(r model.Relationship) error {
	if _, ok := model.ParseRelationType(string(r.Type)); !ok {
		return fmt.Errorf("relationship %s->%s has unknown type %q", r.From, r.To, r.Type)
	}
	if _, ok := ix.entities[r.From]; !ok {
		return &UnknownEntityError{Key: r.From}
	}
	if _, ok := ix.entities[r.To]; !ok {
		return &UnknownEntityError{Key: r.To}
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	ix.outgoing[r.From] = append(ix.outgoing[r.From], r)
	ix.incoming[r.To] = append(ix.incoming[r.To], r)
	ix.relCount++
	return nil
}

// Entity looks up an entity by key
func (ix *Index) Entity(key string) (*model.Entity, bool) {
	e, ok := ix.entities[key]
	return e, ok
}

// EntityCount returns the number of entities in the index
func (ix *Index) EntityCount() int {
	return len(ix.entities)
}

// RelationshipCount returns the number of edges in the index
func (ix *Index) RelationshipCount() int {
	return ix.relCount
}

// KindCounts returns the entity count per kind
func (ix *Index) KindCounts() map[model.EntityKind]int {
	counts := make(map[model.EntityKind]int, len(ix.byKind))
	for kind, list := range ix.byKind {
		counts[kind] = len(list)
	}
	return counts
}

// Neighbors returns the entities adjacent to key in either direction,
// optionally filtered by relation type. An absent key is an
// *UnknownEntityError.
func (ix *Index) Neighbors(key string, types ...model.RelationType) ([]Neighbor, error) {
	if _, ok := ix.entities[key]; !ok {
		return nil, &UnknownEntityError{Key: key}
	}

	wanted := func(t model.RelationType) bool {
		if len(types) == 0 {
			return true
		}
		for _, w := range types {
			if w == t {
				return true
			}
		}
		return false
	}

	var out []Neighbor
	for _, r := range ix.outgoing[key] {
		if wanted(r.Type) {
			out = append(out, Neighbor{Entity: ix.entities[r.To], Rel: r, Outgoing: true})
		}
	}
	for _, r := range ix.incoming[key] {
		if wanted(r.Type) {
			out = append(out, Neighbor{Entity: ix.entities[r.From], Rel: r, Outgoing: false})
		}
	}
	return out, nil
}

// FindPaths performs a bounded breadth-first traversal from start and
// returns up to limit cycle-free paths, shortest first, that end at an
// entity of endKind. An empty endKind accepts any end entity. Edges are
// followed in both directions.
func (ix *Index) FindPaths(start string, endKind model.EntityKind, maxHops, limit int) ([]Path, error) {
	if _, ok := ix.entities[start]; !ok {
		return nil, &UnknownEntityError{Key: start}
	}
	if maxHops <= 0 || limit <= 0 {
		return nil, nil
	}

	var results []Path
	queue := []Path{{Keys: []string{start}}}

	for len(queue) > 0 && len(results) < limit {
		current := queue[0]
		queue = queue[1:]

		if current.Hops() > 0 {
			if e := ix.entities[current.End()]; endKind == "" || e.Kind == endKind {
				results = append(results, current)
				if len(results) >= limit {
					break
				}
			}
		}
		if current.Hops() >= maxHops {
			continue
		}

		onPath := make(map[string]bool, len(current.Keys))
		for _, k := range current.Keys {
			onPath[k] = true
		}

		neighbors, _ := ix.Neighbors(current.End())
		for _, n := range neighbors {
			if onPath[n.Entity.Key] {
				continue
			}
			next := Path{
				Keys: append(append([]string(nil), current.Keys...), n.Entity.Key),
				Rels: append(append([]model.Relationship(nil), current.Rels...), n.Rel),
			}
			queue = append(queue, next)
		}
	}

	return results, nil
}

// FuzzyLookup matches text against the names of entities of the given
// kind and returns matches ranked by similarity. Ties resolve
// deterministically: highest trust_rating first, then smallest key.
// An empty graph returns empty results, never an error.
func (ix *Index) FuzzyLookup(text string, kind model.EntityKind) []Match {
	candidates := ix.byKind[kind]
	if len(candidates) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, e := range candidates {
		sim := ix.sim.Compare(text, e.DisplayName())
		if alt := ix.sim.Compare(text, e.Key); alt > sim {
			sim = alt
		}
		if sim <= 0 {
			continue
		}
		matches = append(matches, Match{Entity: e, Similarity: sim})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		ti, _ := matches[i].Entity.TrustRating()
		tj, _ := matches[j].Entity.TrustRating()
		if ti != tj {
			return ti > tj
		}
		return matches[i].Entity.Key < matches[j].Entity.Key
	})
	return matches
}
