package model

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"detection_server/core/domain"
	"detection_server/pkg/apperr"
)

// Artifact file formats. Both files are produced by the external training
// pipeline; this adapter only validates shape, never derives parameters.
//
// scaler.json: {"type":"standard","mean":[13 floats],"scale":[13 floats]}
// model.json:  {"type":"logistic","weights":[13 floats],"bias":float}

type scalerArtifact struct {
	Type  string    `json:"type"`
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type modelArtifact struct {
	Type    string    `json:"type"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func loadScaler(path string) (*scalerArtifact, error) {
	var scaler scalerArtifact
	if err := readArtifact(path, &scaler); err != nil {
		return nil, err
	}

	if len(scaler.Mean) != domain.FeatureCount || len(scaler.Scale) != domain.FeatureCount {
		return nil, apperr.ArtifactLoad(path, fmt.Errorf(
			"scaler dimension mismatch: mean=%d scale=%d, want %d",
			len(scaler.Mean), len(scaler.Scale), domain.FeatureCount))
	}
	for i, s := range scaler.Scale {
		if s == 0 {
			return nil, apperr.ArtifactLoad(path, fmt.Errorf("scale[%d] is zero", i))
		}
	}
	return &scaler, nil
}

func loadModel(path string) (*modelArtifact, error) {
	var m modelArtifact
	if err := readArtifact(path, &m); err != nil {
		return nil, err
	}

	if len(m.Weights) != domain.FeatureCount {
		return nil, apperr.ArtifactLoad(path, fmt.Errorf(
			"weight dimension mismatch: got %d, want %d", len(m.Weights), domain.FeatureCount))
	}
	return &m, nil
}

func readArtifact(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.ArtifactLoad(path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return apperr.ArtifactLoad(path, err)
	}
	return nil
}
