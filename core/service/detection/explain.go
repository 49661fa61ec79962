package detection

import "detection_server/core/domain"

// Reason strings surfaced to the user. The ML reasons are appended in the
// fixed order of the predicates in Explain.
const (
	ReasonBlacklist = "local blacklist match"
	ReasonTrusted   = "matched trusted domain list"
	ReasonPlatform  = "matched known platform list"
	ReasonNewDomain = "domain name contains a high-risk keyword (simulated new-domain check)"

	ReasonAtSymbol        = "contains '@' symbol"
	ReasonNoHTTPS         = "does not use HTTPS"
	ReasonSensitiveWords  = "contains sensitive words"
	ReasonTooManyDots     = "too many dots"
	ReasonMultipleHyphens = "multiple hyphens"
	ReasonUnreachable     = "URL is not reachable"
	ReasonNoPatterns      = "no strong suspicious patterns detected"
)

// Explainer derives the human-readable reason list from a feature vector.
// Pure and deterministic; never fails.
type Explainer struct {
	// ReachabilityEnabled appends the unreachable reason when valid_url is 0.
	// Only meaningful when the live-probe validity policy is active; under
	// the syntactic prefix policy a 0 just means the string has no "http"
	// prefix and saying "not reachable" would be a lie.
	ReachabilityEnabled bool
}

// Explain evaluates the independent predicates in fixed order and returns
// one reason per predicate that holds. An empty result collapses to the
// single no-patterns reason.
func (e Explainer) Explain(f domain.FeatureVector) []string {
	var reasons []string

	if f.HasAtSymbol == 1 {
		reasons = append(reasons, ReasonAtSymbol)
	}
	if f.IsHTTPS == 0 {
		reasons = append(reasons, ReasonNoHTTPS)
	}
	if f.SensitiveWordCount > 0 {
		reasons = append(reasons, ReasonSensitiveWords)
	}
	if f.DotCount > 4 {
		reasons = append(reasons, ReasonTooManyDots)
	}
	if f.HyphenCount > 2 {
		reasons = append(reasons, ReasonMultipleHyphens)
	}
	if e.ReachabilityEnabled && f.ValidURL == 0 {
		reasons = append(reasons, ReasonUnreachable)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonNoPatterns)
	}

	return reasons
}
