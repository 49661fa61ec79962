package detection

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"detection_server/core/domain"
)

type mockClassifier struct {
	probability float64
	err         error
	calls       int
}

func (m *mockClassifier) Name() string { return "mock" }

func (m *mockClassifier) Predict(_ context.Context, _ domain.FeatureVector) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.probability, nil
}

func newTestPipeline(classifier *mockClassifier, policy domain.ThresholdPolicy) *Pipeline {
	return NewPipeline(nil, NewExtractor(nil), classifier, policy, Explainer{})
}

// TestDecideTerminalStages tests the rule stages that resolve a verdict
// without touching the classifier.
func TestDecideTerminalStages(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPath    domain.DecisionPath
		wantRisk    domain.RiskLevel
		wantReasons []string
	}{
		{
			name:        "blacklisted host is high risk",
			url:         "https://secure-paypal-login.com/account",
			wantPath:    domain.PathBlacklist,
			wantRisk:    domain.RiskHigh,
			wantReasons: []string{ReasonBlacklist},
		},
		{
			name:        "trusted host is low risk",
			url:         "https://google.com",
			wantPath:    domain.PathTrusted,
			wantRisk:    domain.RiskLow,
			wantReasons: []string{ReasonTrusted},
		},
		{
			name:        "platform host is low risk",
			url:         "https://mysite.netlify.app",
			wantPath:    domain.PathPlatform,
			wantRisk:    domain.RiskLow,
			wantReasons: []string{ReasonPlatform},
		},
		{
			name:        "spoofed host resolves as trusted by containment",
			url:         "http://google.com.evil.net/login",
			wantPath:    domain.PathTrusted,
			wantRisk:    domain.RiskLow,
			wantReasons: []string{ReasonTrusted},
		},
		{
			name:        "blacklist wins over trusted when both match",
			url:         "https://secure-paypal-login.com.google.com/",
			wantPath:    domain.PathBlacklist,
			wantRisk:    domain.RiskHigh,
			wantReasons: []string{ReasonBlacklist},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &mockClassifier{probability: 0.99}
			pipeline := newTestPipeline(classifier, domain.Default3TierPolicy())

			verdict, err := pipeline.Decide(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("Decide(%q) error = %v", tt.url, err)
			}

			if verdict.DecisionPath != tt.wantPath {
				t.Errorf("decision path = %q, want %q", verdict.DecisionPath, tt.wantPath)
			}
			if verdict.RiskLevel != tt.wantRisk {
				t.Errorf("risk level = %q, want %q", verdict.RiskLevel, tt.wantRisk)
			}
			if !reflect.DeepEqual(verdict.Reasons, tt.wantReasons) {
				t.Errorf("reasons = %v, want %v", verdict.Reasons, tt.wantReasons)
			}
			if verdict.Probability != nil {
				t.Error("terminal rule verdicts must not carry a probability")
			}
			if verdict.Features != nil {
				t.Error("terminal rule verdicts must not carry features")
			}
			if classifier.calls != 0 {
				t.Errorf("classifier called %d times on a terminal stage, want 0", classifier.calls)
			}
		})
	}
}

// TestDecideMLPath tests the fallback stage: extraction, inference,
// thresholding, and explanation.
func TestDecideMLPath(t *testing.T) {
	classifier := &mockClassifier{probability: 0.82}
	pipeline := newTestPipeline(classifier, domain.Default3TierPolicy())

	verdict, err := pipeline.Decide(context.Background(), "http://my-unknown-site.net/page")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if verdict.DecisionPath != domain.PathML {
		t.Errorf("decision path = %q, want %q", verdict.DecisionPath, domain.PathML)
	}
	if verdict.RiskLevel != domain.RiskHigh {
		t.Errorf("risk level = %q, want %q", verdict.RiskLevel, domain.RiskHigh)
	}
	if verdict.Probability == nil || *verdict.Probability != 0.82 {
		t.Errorf("probability = %v, want 0.82", verdict.Probability)
	}
	if verdict.Features == nil {
		t.Error("ML verdict must carry the extracted features")
	}
	if !reflect.DeepEqual(verdict.Reasons, []string{ReasonNoHTTPS}) {
		t.Errorf("reasons = %v, want [%q]", verdict.Reasons, ReasonNoHTTPS)
	}
	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want 1", classifier.calls)
	}
}

// TestDecideAdvisoryKeyword verifies the new-domain flag rides along on the
// ML verdict without changing the risk level.
func TestDecideAdvisoryKeyword(t *testing.T) {
	classifier := &mockClassifier{probability: 0.1}
	pipeline := newTestPipeline(classifier, domain.Default3TierPolicy())

	verdict, err := pipeline.Decide(context.Background(), "http://login-example.net")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if verdict.DecisionPath != domain.PathML {
		t.Errorf("decision path = %q, want %q", verdict.DecisionPath, domain.PathML)
	}
	if verdict.RiskLevel != domain.RiskLow {
		t.Errorf("risk level = %q, want %q", verdict.RiskLevel, domain.RiskLow)
	}

	want := []string{ReasonNoHTTPS, ReasonSensitiveWords, ReasonNewDomain}
	if !reflect.DeepEqual(verdict.Reasons, want) {
		t.Errorf("reasons = %v, want %v", verdict.Reasons, want)
	}
}

// TestDecideSchemelessInput verifies a bare domain parses to an empty host,
// skips every rule stage, and falls through to the classifier.
func TestDecideSchemelessInput(t *testing.T) {
	classifier := &mockClassifier{probability: 0.2}
	pipeline := newTestPipeline(classifier, domain.Default3TierPolicy())

	verdict, err := pipeline.Decide(context.Background(), "google.com")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if verdict.DecisionPath != domain.PathML {
		t.Errorf("decision path = %q, want %q (rules need a parsed host)", verdict.DecisionPath, domain.PathML)
	}
	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want 1", classifier.calls)
	}
}

func TestDecideClassifierError(t *testing.T) {
	wantErr := errors.New("inference failed")
	pipeline := newTestPipeline(&mockClassifier{err: wantErr}, domain.Default3TierPolicy())

	if _, err := pipeline.Decide(context.Background(), "http://my-unknown-site.net"); !errors.Is(err, wantErr) {
		t.Errorf("Decide() error = %v, want %v", err, wantErr)
	}
}

// TestDecideThresholdProfiles runs the same probability through both
// configured profiles.
func TestDecideThresholdProfiles(t *testing.T) {
	tests := []struct {
		name        string
		policy      domain.ThresholdPolicy
		probability float64
		want        domain.RiskLevel
	}{
		{"3tier boundary to medium", domain.Default3TierPolicy(), 0.3, domain.RiskMedium},
		{"3tier boundary to high", domain.Default3TierPolicy(), 0.6, domain.RiskHigh},
		{"2tier below cutoff", domain.Default2TierPolicy(), 0.49, domain.RiskLow},
		{"2tier at cutoff", domain.Default2TierPolicy(), 0.5, domain.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := newTestPipeline(&mockClassifier{probability: tt.probability}, tt.policy)

			verdict, err := pipeline.Decide(context.Background(), "http://my-unknown-site.net")
			if err != nil {
				t.Fatalf("Decide() error = %v", err)
			}
			if verdict.RiskLevel != tt.want {
				t.Errorf("risk level = %q, want %q", verdict.RiskLevel, tt.want)
			}
		})
	}
}

// TestScoreFeatures verifies direct feature scoring bypasses the rule stages.
func TestScoreFeatures(t *testing.T) {
	classifier := &mockClassifier{probability: 0.7}
	pipeline := newTestPipeline(classifier, domain.Default3TierPolicy())

	features := domain.FeatureVector{URLLength: 44, SensitiveWordCount: 4, HyphenCount: 3}
	verdict, err := pipeline.ScoreFeatures(context.Background(), features)
	if err != nil {
		t.Fatalf("ScoreFeatures() error = %v", err)
	}

	if verdict.DecisionPath != domain.PathML {
		t.Errorf("decision path = %q, want %q", verdict.DecisionPath, domain.PathML)
	}
	if verdict.RiskLevel != domain.RiskHigh {
		t.Errorf("risk level = %q, want %q", verdict.RiskLevel, domain.RiskHigh)
	}
	if verdict.Features == nil || *verdict.Features != features {
		t.Errorf("features = %v, want %v", verdict.Features, features)
	}
	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want 1", classifier.calls)
	}
}
