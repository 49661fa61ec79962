// Package out defines the outbound ports of the detection service.
package out

import (
	"context"

	"detection_server/core/domain"
)

// Classifier wraps a pre-trained scaler + model pair behind a narrow predict
// contract: given the 13-feature vector in training order, return a phishing
// probability in [0,1]. The internal model architecture is opaque and
// swappable as long as this contract holds.
type Classifier interface {
	// Name returns the classifier name (for logging).
	Name() string

	// Predict returns the phishing probability for the feature vector.
	Predict(ctx context.Context, features domain.FeatureVector) (float64, error)
}
