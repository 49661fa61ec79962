package domain

// RiskLevel is the coarse risk bucket derived from rules or probability.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DecisionPath identifies which pipeline stage produced the final verdict.
type DecisionPath string

const (
	PathBlacklist DecisionPath = "blacklist"
	PathTrusted   DecisionPath = "trusted"
	PathPlatform  DecisionPath = "platform"
	PathML        DecisionPath = "ml"
)

// Verdict is the per-request result of the decision pipeline. Constructed
// fresh per request, never persisted beyond the optional response cache.
type Verdict struct {
	DecisionPath     DecisionPath   `json:"decision_path"`
	RiskLevel        RiskLevel      `json:"risk_level"`
	Probability      *float64       `json:"probability,omitempty"`
	Reasons          []string       `json:"reasons"`
	Features         *FeatureVector `json:"features,omitempty"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

// Threshold profiles. Deployments disagree on bucketing; 3-tier is the
// default, 2-tier stays available as a selectable profile.
const (
	Profile3Tier = "3tier"
	Profile2Tier = "2tier"
)

// ThresholdPolicy maps a classifier probability to a risk level.
type ThresholdPolicy struct {
	Profile    string
	LowMax     float64 // 3-tier: below this is low
	MediumMax  float64 // 3-tier: below this is medium, at or above is high
	HighCutoff float64 // 2-tier: at or above this is high
}

// Default3TierPolicy returns the canonical 3-tier thresholds.
func Default3TierPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		Profile:   Profile3Tier,
		LowMax:    0.3,
		MediumMax: 0.6,
	}
}

// Default2TierPolicy returns the binary low/high profile.
func Default2TierPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		Profile:    Profile2Tier,
		HighCutoff: 0.5,
	}
}

// Level buckets a probability. Boundary values land in the higher bucket:
// exactly 0.3 is medium, exactly 0.6 is high under the 3-tier profile.
func (p ThresholdPolicy) Level(probability float64) RiskLevel {
	if p.Profile == Profile2Tier {
		if probability >= p.HighCutoff {
			return RiskHigh
		}
		return RiskLow
	}

	switch {
	case probability < p.LowMax:
		return RiskLow
	case probability < p.MediumMax:
		return RiskMedium
	default:
		return RiskHigh
	}
}
