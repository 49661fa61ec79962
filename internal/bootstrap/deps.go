package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"detection_server/adapter/out/model"
	"detection_server/adapter/out/probe"
	"detection_server/config"
	"detection_server/core/domain"
	"detection_server/core/port/in"
	"detection_server/core/port/out"
	"detection_server/core/service/detection"
	"detection_server/pkg/cache"
	"detection_server/pkg/logger"
)

// Dependencies holds every wired collaborator of the API process.
type Dependencies struct {
	Classifier    out.Classifier
	Probe         out.ReachabilityProbe
	Redis         *redis.Client
	DetectService in.DetectService
}

// NewDependencies wires the classifier, probe, cache, and detection
// service from configuration. The returned cleanup closes external
// connections and is safe to call once.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{}

	// Classifier artifacts: the process cannot serve without them.
	classifier, err := model.Load(cfg.ScalerPath, cfg.ModelPath)
	if err != nil {
		return nil, nil, err
	}
	deps.Classifier = classifier

	// URL validity policy: cheap prefix check by default, live probe
	// when reachability checking is enabled.
	var validity detection.ValidityPolicy = detection.PrefixValidity{}
	if cfg.ReachabilityCheck {
		p := probe.New(cfg.ProbeTimeout())
		deps.Probe = p
		validity = detection.ProbeValidity{Probe: p}
		logger.Info("Reachability probing enabled (timeout: %s)", cfg.ProbeTimeout())
	}

	// Optional Redis verdict cache.
	var verdictCache detection.VerdictCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Invalid REDIS_URL, verdict cache disabled")
		} else {
			client := redis.NewClient(opt)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.WithError(err).Warn("Redis unreachable, verdict cache disabled")
				_ = client.Close()
			} else {
				deps.Redis = client
				verdictCache = cache.NewVerdictCache(client, cfg.VerdictCacheTTL())
				logger.Info("Verdict cache enabled (TTL: %s)", cfg.VerdictCacheTTL())
			}
			cancel()
		}
	}

	pipeline := detection.NewPipeline(
		domain.DefaultRuleTables(),
		detection.NewExtractor(validity),
		classifier,
		thresholdPolicy(cfg),
		detection.Explainer{ReachabilityEnabled: cfg.ReachabilityCheck},
	)
	deps.DetectService = detection.NewService(pipeline, verdictCache)

	cleanup := func() {
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close Redis connection")
			}
		}
	}

	return deps, cleanup, nil
}

func thresholdPolicy(cfg *config.Config) domain.ThresholdPolicy {
	if cfg.RiskProfile == domain.Profile2Tier {
		policy := domain.Default2TierPolicy()
		policy.HighCutoff = cfg.RiskHighCutoff
		return policy
	}

	policy := domain.Default3TierPolicy()
	policy.LowMax = cfg.RiskLowMax
	policy.MediumMax = cfg.RiskMediumMax
	return policy
}
