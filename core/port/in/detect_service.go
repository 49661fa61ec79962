// Package in defines the inbound use-case ports of the detection service.
package in

import (
	"context"

	"detection_server/core/domain"
)

// DetectService is the inbound port for phishing checks.
type DetectService interface {
	// CheckURL runs the full pipeline on a raw URL: rule tables first, then
	// feature extraction and ML inference. Returns an InvalidInput error for
	// an empty or whitespace-only URL.
	CheckURL(ctx context.Context, rawURL string) (*domain.Verdict, error)

	// CheckFeatures scores a pre-supplied feature vector directly, skipping
	// extraction and the rule stages (no host is available).
	CheckFeatures(ctx context.Context, features domain.FeatureVector) (*domain.Verdict, error)
}
