package verify

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/greenveil/greenveil/internal/graph"
	"github.com/greenveil/greenveil/internal/model"
)

// NoCompanyContextNote is emitted when contradiction search cannot run
// because the claim is unattributed. Callers must distinguish "checked,
// found nothing" from "could not check".
const NoCompanyContextNote = "no company context: contradiction check skipped"

// absoluteQualifiers mark claims that assert totality. An absolute claim
// contradicted by any violation record is a stronger signal than a
// qualified claim contradicting the same record.
var absoluteQualifiers = []string{
	"100%", "completely", "zero", "never", "always",
	"totally", "entirely", "fully", "absolutely",
}

// Findings is the outcome of one contradiction search
type Findings struct {
	Contradictions []string // Graph-derived evidence conflicting with the claim
	Notes          []string // Why a search was skipped or could not resolve
	Checked        bool     // False when no company context was available
	Absolute       bool     // Absolute-qualifier claim contradicted by a violation record
}

// ContradictionDetector searches the graph for evidence contradicting a
// claim, such as a recorded violation of the substance or standard the
// claim references
type ContradictionDetector struct {
	idx *graph.Index
	cfg *model.Config
}

// NewContradictionDetector creates a detector bound to one graph snapshot
func NewContradictionDetector(idx *graph.Index, cfg *model.Config) *ContradictionDetector {
	return &ContradictionDetector{idx: idx, cfg: cfg}
}

// FindContradictions resolves the claim's topic to a Substance or
// Standard entity and traverses up to the configured hop bound from the
// company looking for VIOLATES records touching it or a regulator it is
// banned under.
func (d *ContradictionDetector) FindContradictions(claim model.Claim, company string) Findings {
	if company == "" {
		return Findings{Notes: []string{NoCompanyContextNote}}
	}

	topic := claim.Topic
	if topic == "" {
		topic = claim.Text
	}

	target := d.resolveTopic(topic)
	if target == nil {
		return Findings{
			Checked: true,
			Notes: []string{
				fmt.Sprintf("topic %q could not be resolved against known substances or standards", topic),
			},
		}
	}

	findings := Findings{Checked: true}
	regulators := regulatorSet(target)

	paths, err := d.idx.FindPaths(company, "", d.cfg.Traversal.MaxHops, d.cfg.Traversal.PathCap)
	if err != nil {
		findings.Notes = append(findings.Notes,
			fmt.Sprintf("contradiction search skipped: %v", err))
		return findings
	}

	seen := make(map[string]bool)
	record := func(rel model.Relationship, detail string) {
		key := fmt.Sprintf("%s|%s|%s", rel.From, rel.Type, rel.To)
		if seen[key] {
			return
		}
		seen[key] = true
		findings.Contradictions = append(findings.Contradictions, detail)
	}

	for _, p := range paths {
		for _, rel := range p.Rels {
			if rel.Type != model.RelationViolates {
				continue
			}
			if !d.violationTouches(rel, target, regulators) {
				continue
			}
			under := d.regulatorFor(rel, target, regulators)
			if under != "" {
				record(rel, fmt.Sprintf("recorded violation: %s VIOLATES %s under %s (confidence %.2f)", rel.From, rel.To, under, rel.Confidence))
			} else {
				record(rel, fmt.Sprintf("recorded violation: %s VIOLATES %s (confidence %.2f)", rel.From, rel.To, rel.Confidence))
			}
		}
	}

	if len(findings.Contradictions) > 0 && hasAbsoluteQualifier(claim.Text) {
		findings.Absolute = true
		findings.Contradictions = append(findings.Contradictions,
			fmt.Sprintf("absolute_claim_contradiction: claim asserts totality (%q) while violation records exist for %q", firstAbsoluteQualifier(claim.Text), target.DisplayName()))
	}

	return findings
}

// resolveTopic fuzzy-matches the topic text against Substance entities
// first, then Standard entities, at the verification threshold
func (d *ContradictionDetector) resolveTopic(topic string) *model.Entity {
	for _, kind := range []model.EntityKind{model.KindSubstance, model.KindStandard} {
		matches := d.idx.FuzzyLookup(topic, kind)
		if len(matches) > 0 && matches[0].Similarity >= d.cfg.Thresholds.FuzzyMatch {
			return matches[0].Entity
		}
	}
	return nil
}

// violationTouches reports whether a VIOLATES edge concerns the resolved
// entity directly or one of the regulators it is banned under
func (d *ContradictionDetector) violationTouches(rel model.Relationship, target *model.Entity, regulators map[string]bool) bool {
	if rel.To == target.Key || rel.From == target.Key {
		return true
	}
	return regulators[rel.To] || regulators[rel.From]
}

// regulatorFor names the regulator code a violation falls under, if any
func (d *ContradictionDetector) regulatorFor(rel model.Relationship, target *model.Entity, regulators map[string]bool) string {
	if regulators[rel.To] {
		return rel.To
	}
	if regulators[rel.From] {
		return rel.From
	}
	if rel.To == target.Key || rel.From == target.Key {
		if codes := target.StringListAttr("banned_under"); len(codes) > 0 {
			return strings.Join(codes, ", ")
		}
	}
	return ""
}

func regulatorSet(target *model.Entity) map[string]bool {
	set := make(map[string]bool)
	for _, code := range target.StringListAttr("banned_under") {
		set[code] = true
	}
	return set
}

func hasAbsoluteQualifier(text string) bool {
	return firstAbsoluteQualifier(text) != ""
}

// firstAbsoluteQualifier matches qualifiers against whole words, so
// "nevertheless" does not trigger "never"
func firstAbsoluteQualifier(text string) string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%'
	})
	present := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		present[tok] = true
	}
	for _, q := range absoluteQualifiers {
		if present[q] {
			return q
		}
	}
	return ""
}
