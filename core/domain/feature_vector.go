// Package domain contains the core types of the phishing detection service.
package domain

// FeatureCount is the fixed length of the feature vector. The order of the
// fields below must match the order the feature scaler was fit on.
const FeatureCount = 13

// FeatureVector holds the URL features in the fixed training order.
// Boolean features are encoded as 0/1.
type FeatureVector struct {
	URLLength          int `json:"url_length"`
	ValidURL           int `json:"valid_url"`
	HasAtSymbol        int `json:"has_at_symbol"`
	SensitiveWordCount int `json:"sensitive_word_count"`
	PathLength         int `json:"path_length"`
	IsHTTPS            int `json:"is_https"`
	DotCount           int `json:"dot_count"`
	HyphenCount        int `json:"hyphen_count"`
	AndCount           int `json:"and_count"`
	OrCount            int `json:"or_count"`
	WWWCount           int `json:"www_count"`
	DotComCount        int `json:"dotcom_count"`
	UnderscoreCount    int `json:"underscore_count"`
}

// FeatureNames lists the feature names in vector order.
var FeatureNames = [FeatureCount]string{
	"url_length",
	"valid_url",
	"has_at_symbol",
	"sensitive_word_count",
	"path_length",
	"is_https",
	"dot_count",
	"hyphen_count",
	"and_count",
	"or_count",
	"www_count",
	"dotcom_count",
	"underscore_count",
}

// Values returns the features as a fixed-order numeric vector, the shape the
// classifier adapter consumes.
func (f FeatureVector) Values() [FeatureCount]float64 {
	return [FeatureCount]float64{
		float64(f.URLLength),
		float64(f.ValidURL),
		float64(f.HasAtSymbol),
		float64(f.SensitiveWordCount),
		float64(f.PathLength),
		float64(f.IsHTTPS),
		float64(f.DotCount),
		float64(f.HyphenCount),
		float64(f.AndCount),
		float64(f.OrCount),
		float64(f.WWWCount),
		float64(f.DotComCount),
		float64(f.UnderscoreCount),
	}
}
