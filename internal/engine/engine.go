// Package engine orchestrates claim verification and deception scoring
// over an atomically swappable knowledge-graph snapshot.
package engine

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/greenveil/greenveil/internal/graph"
	"github.com/greenveil/greenveil/internal/kb"
	"github.com/greenveil/greenveil/internal/llm"
	"github.com/greenveil/greenveil/internal/metrics"
	"github.com/greenveil/greenveil/internal/model"
	"github.com/greenveil/greenveil/internal/score"
	"github.com/greenveil/greenveil/internal/verify"
)

// snapshot bundles one immutable graph index with the verifiers bound to
// it. In-flight analyses keep the snapshot they started with; a refresh
// swaps the pointer whole so readers never observe a partial index.
type snapshot struct {
	index    *graph.Index
	verifier *verify.CertVerifier
	detector *verify.ContradictionDetector
	warnings []string
	loadedAt time.Time
}

// Engine is the claim verification and deception scoring engine
type Engine struct {
	cfg     *model.Config
	sim     graph.Similarity
	current atomic.Pointer[snapshot]
	agg     *score.Aggregator
	metrics *metrics.Metrics
	advisor *llm.Advisor
}

// Option customizes engine construction
type Option func(*Engine)

// WithSimilarity overrides the fuzzy matching strategy
func WithSimilarity(sim graph.Similarity) Option {
	return func(e *Engine) { e.sim = sim }
}

// WithMetrics attaches prometheus instrumentation
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithAdvisor attaches the optional LLM advisory summarizer. Advisories
// are generated after scoring and never affect the score.
func WithAdvisor(a *llm.Advisor) Option {
	return func(e *Engine) { e.advisor = a }
}

// New validates the configuration and creates an engine without a
// knowledge base; call Refresh before Analyze. Configuration errors are
// fatal here, never at request time.
func New(cfg *model.Config, opts ...Option) (*Engine, error) {
	agg, err := score.NewAggregator(cfg)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg,
		sim: graph.NewTokenSimilarity(),
		agg: agg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Refresh loads reference data and atomically swaps in the new graph.
// Malformed records are skipped; their count is returned as warnings.
func (e *Engine) Refresh(r io.Reader) (warnings []string, err error) {
	store, err := kb.Load(r)
	if err != nil {
		return nil, fmt.Errorf("refresh knowledge base: %w", err)
	}
	return e.install(store), nil
}

// RefreshFile loads reference data from a file path
func (e *Engine) RefreshFile(path string) ([]string, error) {
	store, err := kb.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("refresh knowledge base: %w", err)
	}
	return e.install(store), nil
}

func (e *Engine) install(store *kb.Store) []string {
	idx := store.BuildIndex(e.sim)
	snap := &snapshot{
		index:    idx,
		verifier: verify.NewCertVerifier(idx, e.cfg),
		detector: verify.NewContradictionDetector(idx, e.cfg),
		warnings: store.Warnings,
		loadedAt: time.Now().UTC(),
	}
	e.current.Store(snap)

	if e.metrics != nil {
		e.metrics.KBEntities.Set(float64(idx.EntityCount()))
		e.metrics.KBRelationships.Set(float64(idx.RelationshipCount()))
		e.metrics.KBLoadWarnings.Add(float64(len(store.Warnings)))
	}
	return store.Warnings
}

// Index returns the current graph snapshot's index, or nil if no
// knowledge base has been loaded
func (e *Engine) Index() *graph.Index {
	snap := e.current.Load()
	if snap == nil {
		return nil
	}
	return snap.index
}

// Analyze verifies and scores one claim bundle against the current
// knowledge-graph snapshot. A well-formed bundle always yields a report;
// scoring anomalies degrade into the report's evidence trail.
func (e *Engine) Analyze(ctx context.Context, bundle *model.ClaimBundle) (*model.DeceptionReport, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, fmt.Errorf("no knowledge base loaded")
	}

	start := time.Now()
	analyses := e.analyzeClaims(snap, bundle)
	report := e.agg.Aggregate(bundle, analyses)

	if e.metrics != nil {
		e.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		e.metrics.AnalysesTotal.WithLabelValues(string(report.Severity)).Inc()
		for _, ca := range analyses {
			e.metrics.VerificationsTotal.WithLabelValues(string(ca.Verification.Status)).Inc()
			e.metrics.ContradictionsTotal.Add(float64(len(ca.Contradictions)))
		}
	}

	// Advisory generation comes after scoring and never affects it.
	if e.advisor != nil && e.advisor.IsEnabled() {
		advisory, err := e.advisor.Generate(ctx, report)
		if err != nil {
			report.Notes = append(report.Notes, fmt.Sprintf("advisory generation failed: %v", err))
		} else if advisory != nil {
			report.Advisory = advisory
		}
	}

	return report, nil
}

// analyzeClaims runs certification verification and contradiction
// detection for every claim, plus every visually detected certification
// mark that no claim already covers
func (e *Engine) analyzeClaims(snap *snapshot, bundle *model.ClaimBundle) []model.ClaimAnalysis {
	analyses := make([]model.ClaimAnalysis, 0, len(bundle.Claims)+len(bundle.Certifications))
	coveredTokens := make(map[string]bool)

	for _, claim := range bundle.Claims {
		ca := model.ClaimAnalysis{Claim: claim}

		if claim.CertificationToken != "" {
			coveredTokens[claim.CertificationToken] = true
			ca.Verification = snap.verifier.Verify(claim.CertificationToken, bundle.Company)
		} else {
			ca.Verification = model.VerificationResult{
				Status:   model.StatusUnverified,
				Evidence: []string{"no certification claimed"},
			}
		}

		findings := snap.detector.FindContradictions(claim, bundle.Company)
		ca.Contradictions = findings.Contradictions
		ca.Notes = findings.Notes
		ca.ContradictionChecked = findings.Checked
		ca.AbsoluteContradiction = findings.Absolute

		analyses = append(analyses, ca)
	}

	for _, token := range bundle.Certifications {
		if coveredTokens[token.Text] {
			continue
		}
		ca := model.ClaimAnalysis{
			Claim: model.Claim{
				Text:               token.Text,
				CertificationToken: token.Text,
			},
			Notes: []string{fmt.Sprintf("certification mark detected visually (confidence %.2f)", token.Confidence)},
		}
		ca.Verification = snap.verifier.Verify(token.Text, bundle.Company)
		analyses = append(analyses, ca)
	}

	return analyses
}

// Warnings returns the load warnings of the current snapshot
func (e *Engine) Warnings() []string {
	snap := e.current.Load()
	if snap == nil {
		return nil
	}
	return snap.warnings
}
