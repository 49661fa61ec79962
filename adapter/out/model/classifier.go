// Package model implements the classifier adapter: a feature-scaling
// transform plus a trained binary model, both loaded once from disk at
// process startup and read-only for the process lifetime.
package model

import (
	"context"
	"fmt"
	"math"

	"detection_server/core/domain"
	"detection_server/pkg/logger"
)

// Classifier scales a feature vector with the fitted standardization
// parameters and runs it through the trained logistic model. Safe for
// concurrent use: all state is immutable after Load.
type Classifier struct {
	mean    [domain.FeatureCount]float64
	scale   [domain.FeatureCount]float64
	weights [domain.FeatureCount]float64
	bias    float64
}

// Load reads both artifacts and validates their dimensions against the
// fixed feature order. Any failure here is fatal to the caller: the
// process cannot serve requests without its model.
func Load(scalerPath, modelPath string) (*Classifier, error) {
	scaler, err := loadScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	trained, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}

	c := &Classifier{bias: trained.Bias}
	copy(c.mean[:], scaler.Mean)
	copy(c.scale[:], scaler.Scale)
	copy(c.weights[:], trained.Weights)

	logger.WithFields(map[string]any{
		"scaler": scalerPath,
		"model":  modelPath,
	}).Info("Classifier artifacts loaded")

	return c, nil
}

// Name returns the classifier name.
func (c *Classifier) Name() string {
	return "logistic"
}

// Predict scales the feature vector and returns the phishing probability.
func (c *Classifier) Predict(_ context.Context, features domain.FeatureVector) (float64, error) {
	values := features.Values()

	z := c.bias
	for i := 0; i < domain.FeatureCount; i++ {
		z += c.weights[i] * (values[i] - c.mean[i]) / c.scale[i]
	}

	p := sigmoid(z)
	if math.IsNaN(p) {
		return 0, fmt.Errorf("classifier produced NaN for input %v", values)
	}
	return clamp01(p), nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
