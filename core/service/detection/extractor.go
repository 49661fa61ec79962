// Package detection implements the staged phishing decision pipeline:
// ordered rule-table checks first, ML inference as the fallback stage.
package detection

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"detection_server/core/domain"
	"detection_server/core/port/out"
)

// sensitiveWords is the fixed keyword set counted (case-insensitive,
// non-overlapping) across the whole URL string.
var sensitiveWords = []string{"login", "verify", "bank", "secure", "account", "update"}

// =============================================================================
// URL Validity Policy
// =============================================================================

// ValidityPolicy decides the valid_url feature. The default policy is a
// syntactic prefix check; the probe-backed policy is the live-reachability
// variant and must be injected, never hard-wired.
type ValidityPolicy interface {
	Valid(ctx context.Context, rawURL string) bool
}

// PrefixValidity marks a URL valid when it starts with the literal "http".
type PrefixValidity struct{}

// Valid reports whether rawURL starts with "http".
func (PrefixValidity) Valid(_ context.Context, rawURL string) bool {
	return strings.HasPrefix(rawURL, "http")
}

// ProbeValidity marks a URL valid when a live GET answers with HTTP 200.
type ProbeValidity struct {
	Probe out.ReachabilityProbe
}

// Valid reports whether the URL is currently reachable.
func (p ProbeValidity) Valid(ctx context.Context, rawURL string) bool {
	return p.Probe.Reachable(ctx, rawURL)
}

// =============================================================================
// Feature Extractor
// =============================================================================

// Extractor turns a raw URL string into the fixed 13-feature vector.
// Extraction is total: any input, including empty or malformed strings,
// yields a vector of zeros/defaults rather than an error.
type Extractor struct {
	validity ValidityPolicy
}

// NewExtractor creates an extractor with the given validity policy.
// A nil policy falls back to the syntactic prefix check.
func NewExtractor(validity ValidityPolicy) *Extractor {
	if validity == nil {
		validity = PrefixValidity{}
	}
	return &Extractor{validity: validity}
}

// Extract computes the feature vector for rawURL.
func (e *Extractor) Extract(ctx context.Context, rawURL string) domain.FeatureVector {
	lower := strings.ToLower(rawURL)

	f := domain.FeatureVector{
		URLLength:       utf8.RuneCountInString(rawURL),
		DotCount:        strings.Count(rawURL, "."),
		HyphenCount:     strings.Count(rawURL, "-"),
		UnderscoreCount: strings.Count(rawURL, "_"),
		AndCount:        strings.Count(lower, "and"),
		// "or" as a substring also matches inside words like "world".
		// Faithful to the trained feature; do not fix.
		OrCount:     strings.Count(lower, "or"),
		WWWCount:    strings.Count(lower, "www"),
		DotComCount: strings.Count(lower, ".com"),
	}

	if e.validity.Valid(ctx, rawURL) {
		f.ValidURL = 1
	}
	if strings.Contains(rawURL, "@") {
		f.HasAtSymbol = 1
	}
	for _, w := range sensitiveWords {
		f.SensitiveWordCount += strings.Count(lower, w)
	}

	// Malformed URLs degrade to empty scheme/host/path rather than failing.
	if u, err := url.Parse(rawURL); err == nil {
		f.PathLength = utf8.RuneCountInString(u.Path)
		if u.Scheme == "https" {
			f.IsHTTPS = 1
		}
	}

	return f
}

// Host returns the lowercased host component of rawURL, or "" when the URL
// does not parse or carries no host. Rule-table checks run against this.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
