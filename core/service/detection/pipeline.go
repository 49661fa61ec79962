package detection

import (
	"context"
	"errors"
	"time"

	"detection_server/core/domain"
	"detection_server/core/port/out"
)

// ErrEmptyURL is returned when the trimmed input URL is empty. The HTTP
// adapter maps it to a 400 with a re-enter prompt; it never reaches the
// rule stages or the classifier.
var ErrEmptyURL = errors.New("url must not be empty")

// =============================================================================
// Rule Stages
// =============================================================================

// ruleStage tags which rule stage fired. An explicit tagged result keeps
// the stage ordering visible instead of burying it in early returns.
type ruleStage int

const (
	stageBlacklist ruleStage = iota
	stageTrusted
	stagePlatform
	stageMLRequired
)

// ruleMatch is the outcome of walking the ordered rule stages.
type ruleMatch struct {
	stage    ruleStage
	entry    string // matched table entry, for logging
	advisory bool   // new-domain keyword seen on the way to the ML stage
}

// =============================================================================
// Decision Pipeline
// =============================================================================

// Pipeline orchestrates the staged verdict:
//
//	Stage 1: empty input    → rejected before any processing
//	Stage 2: blacklist      → terminal, high risk
//	Stage 3: trusted list   → terminal, low risk
//	Stage 4: platform list  → terminal, low risk
//	Stage 5: new-domain flag → advisory only, never terminal
//	Stage 6: ML inference   → probability thresholded into a risk level
//
// Stages run strictly in order; the first terminal match wins and the
// classifier is never invoked for it. The tables are not mutually
// exclusive — a host matching both blacklist and trusted resolves to
// blacklist because stage order decides.
type Pipeline struct {
	tables     *domain.RuleTables
	extractor  *Extractor
	classifier out.Classifier
	policy     domain.ThresholdPolicy
	explainer  Explainer
}

// NewPipeline assembles a decision pipeline. Nil tables fall back to the
// built-in defaults.
func NewPipeline(tables *domain.RuleTables, extractor *Extractor, classifier out.Classifier, policy domain.ThresholdPolicy, explainer Explainer) *Pipeline {
	if tables == nil {
		tables = domain.DefaultRuleTables()
	}
	return &Pipeline{
		tables:     tables,
		extractor:  extractor,
		classifier: classifier,
		policy:     policy,
		explainer:  explainer,
	}
}

// Decide runs the full pipeline on a raw URL.
func (p *Pipeline) Decide(ctx context.Context, rawURL string) (*domain.Verdict, error) {
	start := time.Now()

	match := p.evalRules(Host(rawURL))

	switch match.stage {
	case stageBlacklist:
		return finish(&domain.Verdict{
			DecisionPath: domain.PathBlacklist,
			RiskLevel:    domain.RiskHigh,
			Reasons:      []string{ReasonBlacklist},
		}, start), nil

	case stageTrusted:
		return finish(&domain.Verdict{
			DecisionPath: domain.PathTrusted,
			RiskLevel:    domain.RiskLow,
			Reasons:      []string{ReasonTrusted},
		}, start), nil

	case stagePlatform:
		return finish(&domain.Verdict{
			DecisionPath: domain.PathPlatform,
			RiskLevel:    domain.RiskLow,
			Reasons:      []string{ReasonPlatform},
		}, start), nil
	}

	features := p.extractor.Extract(ctx, rawURL)

	verdict, err := p.score(ctx, features)
	if err != nil {
		return nil, err
	}
	if match.advisory {
		// Informational only: the flag never changes the risk level.
		verdict.Reasons = append(verdict.Reasons, ReasonNewDomain)
	}
	return finish(verdict, start), nil
}

// ScoreFeatures scores a pre-supplied feature vector, skipping the rule
// stages entirely (no host is available to match against).
func (p *Pipeline) ScoreFeatures(ctx context.Context, features domain.FeatureVector) (*domain.Verdict, error) {
	start := time.Now()

	verdict, err := p.score(ctx, features)
	if err != nil {
		return nil, err
	}
	return finish(verdict, start), nil
}

// evalRules walks the ordered rule stages against the lowercased host and
// returns the first terminal match, carrying the advisory flag when no
// terminal stage fired.
func (p *Pipeline) evalRules(host string) ruleMatch {
	if entry, ok := p.tables.MatchBlacklist(host); ok {
		return ruleMatch{stage: stageBlacklist, entry: entry}
	}
	if entry, ok := p.tables.MatchTrusted(host); ok {
		return ruleMatch{stage: stageTrusted, entry: entry}
	}
	if entry, ok := p.tables.MatchPlatform(host); ok {
		return ruleMatch{stage: stagePlatform, entry: entry}
	}

	match := ruleMatch{stage: stageMLRequired}
	if entry, ok := p.tables.MatchNewDomainKeyword(host); ok {
		match.advisory = true
		match.entry = entry
	}
	return match
}

// score runs the ML stage: classifier inference plus threshold bucketing
// plus the rule-based explanation.
func (p *Pipeline) score(ctx context.Context, features domain.FeatureVector) (*domain.Verdict, error) {
	probability, err := p.classifier.Predict(ctx, features)
	if err != nil {
		return nil, err
	}

	return &domain.Verdict{
		DecisionPath: domain.PathML,
		RiskLevel:    p.policy.Level(probability),
		Probability:  &probability,
		Reasons:      p.explainer.Explain(features),
		Features:     &features,
	}, nil
}

func finish(v *domain.Verdict, start time.Time) *domain.Verdict {
	v.ProcessingTimeMs = time.Since(start).Milliseconds()
	return v
}
