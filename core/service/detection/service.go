package detection

import (
	"context"
	"strings"
	"time"

	"detection_server/core/domain"
	"detection_server/pkg/logger"
)

// VerdictCache caches verdicts keyed by the normalized URL. Purely a
// response cache with a short TTL; misses and cache errors are silent.
type VerdictCache interface {
	GetVerdict(ctx context.Context, key string) (*domain.Verdict, bool)
	SetVerdict(ctx context.Context, key string, verdict *domain.Verdict)
}

// Service implements the DetectService inbound port on top of the pipeline.
type Service struct {
	pipeline *Pipeline
	cache    VerdictCache // nil when no cache is configured
}

// NewService creates the detection service. cache may be nil.
func NewService(pipeline *Pipeline, cache VerdictCache) *Service {
	return &Service{
		pipeline: pipeline,
		cache:    cache,
	}
}

// CheckURL validates the input, consults the cache, and runs the pipeline.
func (s *Service) CheckURL(ctx context.Context, rawURL string) (*domain.Verdict, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, ErrEmptyURL
	}

	if s.cache != nil {
		if verdict, ok := s.cache.GetVerdict(ctx, trimmed); ok {
			logger.WithField("path", string(verdict.DecisionPath)).Debug("Verdict cache hit")
			return verdict, nil
		}
	}

	start := time.Now()
	verdict, err := s.pipeline.Decide(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]any{
		"decision_path": string(verdict.DecisionPath),
		"risk_level":    string(verdict.RiskLevel),
	}).WithDuration(time.Since(start)).Info("URL checked")

	if s.cache != nil {
		s.cache.SetVerdict(ctx, trimmed, verdict)
	}
	return verdict, nil
}

// CheckFeatures scores a caller-supplied feature vector directly.
func (s *Service) CheckFeatures(ctx context.Context, features domain.FeatureVector) (*domain.Verdict, error) {
	start := time.Now()
	verdict, err := s.pipeline.ScoreFeatures(ctx, features)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]any{
		"decision_path": string(verdict.DecisionPath),
		"risk_level":    string(verdict.RiskLevel),
	}).WithDuration(time.Since(start)).Info("Feature vector checked")

	return verdict, nil
}
