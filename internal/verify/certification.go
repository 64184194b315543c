// Package verify cross-references claimed certifications and claim
// topics against the knowledge graph: certification verification and
// contradiction detection.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/greenveil/greenveil/internal/graph"
	"github.com/greenveil/greenveil/internal/model"
)

// CertVerifier verifies claimed certification names against the
// Certification entities of one graph snapshot. Results are memoized
// per snapshot; the cache dies with the verifier on refresh.
type CertVerifier struct {
	idx   *graph.Index
	cfg   *model.Config
	cache *gocache.Cache
}

// NewCertVerifier creates a verifier bound to one graph snapshot
func NewCertVerifier(idx *graph.Index, cfg *model.Config) *CertVerifier {
	v := &CertVerifier{idx: idx, cfg: cfg}
	if cfg.Cache.Enabled {
		v.cache = gocache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}
	return v
}

// cacheKey hashes the verification inputs
func cacheKey(claimedName, company string) string {
	hash := sha256.Sum256([]byte(claimedName + "\x00" + company))
	return "greenveil:v1:" + hex.EncodeToString(hash[:])
}

// Verify determines the verification status of a claimed certification.
// If company is given, a COMPLIES_WITH record between company and the
// matched certification is also required within the configured hop
// bound; its absence downgrades VERIFIED to SUSPICIOUS.
func (v *CertVerifier) Verify(claimedName, company string) model.VerificationResult {
	if v.cache != nil {
		if hit, ok := v.cache.Get(cacheKey(claimedName, company)); ok {
			return hit.(model.VerificationResult)
		}
	}

	result := v.verify(claimedName, company)

	if v.cache != nil {
		v.cache.Set(cacheKey(claimedName, company), result, gocache.DefaultExpiration)
	}
	return result
}

func (v *CertVerifier) verify(claimedName, company string) model.VerificationResult {
	th := v.cfg.Thresholds

	matches := v.idx.FuzzyLookup(claimedName, model.KindCertification)
	if len(matches) == 0 || matches[0].Similarity < th.SuspiciousSim {
		best := 0.0
		if len(matches) > 0 {
			best = matches[0].Similarity
		}
		return model.VerificationResult{
			Status: model.StatusUnverified,
			Evidence: []string{
				fmt.Sprintf("no registered certification matches %q (best similarity %.2f, match floor %.2f)", claimedName, best, th.SuspiciousSim),
			},
		}
	}

	best := matches[0]
	entity := best.Entity
	sim := best.Similarity

	// A match flagged in the questionable/fake registry is FAKE
	// regardless of similarity or trust rating.
	if entity.Questionable() {
		return model.VerificationResult{
			Status:        model.StatusFake,
			MatchedEntity: entity.Key,
			Confidence:    sim,
			Evidence: []string{
				fmt.Sprintf("%q matches %q (similarity %.2f), which is flagged in the questionable certification registry", claimedName, entity.DisplayName(), sim),
			},
		}
	}

	trust, hasTrust := entity.TrustRating()
	evidence := []string{
		fmt.Sprintf("%q matched certification %q (similarity %.2f, trust %.2f)", claimedName, entity.DisplayName(), sim, trust),
	}
	if !hasTrust {
		trust = 0.5
		evidence = append(evidence, fmt.Sprintf("certification %q has no trust_rating; assuming neutral 0.5", entity.Key))
	}

	if sim < th.FuzzyMatch {
		// Below the verification threshold. A near-miss on a low-trust
		// entity is the classic sound-alike scam, so it escalates.
		if trust < th.LowTrust {
			return model.VerificationResult{
				Status:        model.StatusSuspicious,
				MatchedEntity: entity.Key,
				Confidence:    sim * trust,
				Evidence: append(evidence,
					fmt.Sprintf("similarity %.2f is below the %.2f verification threshold and matched entity has low trust rating %.2f", sim, th.FuzzyMatch, trust)),
			}
		}
		return model.VerificationResult{
			Status:        model.StatusUnverified,
			MatchedEntity: entity.Key,
			Confidence:    sim * trust,
			Evidence: append(evidence,
				fmt.Sprintf("similarity %.2f is below the %.2f verification threshold", sim, th.FuzzyMatch)),
		}
	}

	result := model.VerificationResult{
		Status:        model.StatusVerified,
		MatchedEntity: entity.Key,
		Confidence:    sim * trust,
		Evidence:      evidence,
	}

	if company != "" {
		found, err := v.complianceRecorded(company, entity.Key)
		switch {
		case err != nil:
			result.Evidence = append(result.Evidence,
				fmt.Sprintf("compliance check skipped: %v", err))
		case found:
			result.Evidence = append(result.Evidence,
				fmt.Sprintf("compliance record found between %q and %q", company, entity.Key))
		default:
			result.Status = model.StatusSuspicious
			result.Evidence = append(result.Evidence, "no compliance record found")
		}
	}

	return result
}

// complianceRecorded reports whether a COMPLIES_WITH relationship links
// company to the certification within the configured hop bound
func (v *CertVerifier) complianceRecorded(company, certKey string) (bool, error) {
	paths, err := v.idx.FindPaths(company, model.KindCertification, v.cfg.Traversal.ComplianceHops, v.cfg.Traversal.PathCap)
	if err != nil {
		return false, err
	}
	for _, p := range paths {
		if p.End() != certKey {
			continue
		}
		for _, r := range p.Rels {
			if r.Type == model.RelationCompliesWith {
				return true, nil
			}
		}
	}
	return false, nil
}
