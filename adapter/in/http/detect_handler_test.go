package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"detection_server/core/domain"
	"detection_server/core/service/detection"
	"detection_server/infra/middleware"
)

type fakeDetectService struct {
	verdict      *domain.Verdict
	err          error
	lastURL      string
	lastFeatures domain.FeatureVector
	featureCalls int
}

func (s *fakeDetectService) CheckURL(_ context.Context, rawURL string) (*domain.Verdict, error) {
	s.lastURL = rawURL
	if strings.TrimSpace(rawURL) == "" {
		return nil, detection.ErrEmptyURL
	}
	return s.verdict, s.err
}

func (s *fakeDetectService) CheckFeatures(_ context.Context, features domain.FeatureVector) (*domain.Verdict, error) {
	s.featureCalls++
	s.lastFeatures = features
	return s.verdict, s.err
}

func newTestApp(svc *fakeDetectService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	NewDetectHandler(svc).Register(app.Group("/api/v1"))
	return app
}

type testEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		DecisionPath string   `json:"decision_path"`
		RiskLevel    string   `json:"risk_level"`
		Reasons      []string `json:"reasons"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, testEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope testEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("response body is not valid JSON: %v\n%s", err, raw)
	}
	return resp.StatusCode, envelope
}

// TestCheckURLEndpoint tests POST /api/v1/check.
func TestCheckURLEndpoint(t *testing.T) {
	t.Run("valid url returns verdict envelope", func(t *testing.T) {
		svc := &fakeDetectService{verdict: &domain.Verdict{
			DecisionPath: domain.PathTrusted,
			RiskLevel:    domain.RiskLow,
			Reasons:      []string{detection.ReasonTrusted},
		}}
		app := newTestApp(svc)

		status, envelope := doJSON(t, app, http.MethodPost, "/api/v1/check", `{"url":"https://google.com"}`)

		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if !envelope.Success {
			t.Error("success = false, want true")
		}
		if envelope.Data.DecisionPath != string(domain.PathTrusted) {
			t.Errorf("decision_path = %q, want %q", envelope.Data.DecisionPath, domain.PathTrusted)
		}
		if svc.lastURL != "https://google.com" {
			t.Errorf("service received %q", svc.lastURL)
		}
	})

	t.Run("empty url is rejected with invalid input", func(t *testing.T) {
		app := newTestApp(&fakeDetectService{})

		status, envelope := doJSON(t, app, http.MethodPost, "/api/v1/check", `{"url":"  "}`)

		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if envelope.Error.Code != "INVALID_INPUT" {
			t.Errorf("error code = %q, want INVALID_INPUT", envelope.Error.Code)
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		app := newTestApp(&fakeDetectService{})

		status, envelope := doJSON(t, app, http.MethodPost, "/api/v1/check", `{not json`)

		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if envelope.Error.Code != "BAD_REQUEST" {
			t.Errorf("error code = %q, want BAD_REQUEST", envelope.Error.Code)
		}
	})
}

// TestCheckFeaturesEndpoint tests POST /api/v1/check/features.
func TestCheckFeaturesEndpoint(t *testing.T) {
	t.Run("valid vector is scored", func(t *testing.T) {
		svc := &fakeDetectService{verdict: &domain.Verdict{
			DecisionPath: domain.PathML,
			RiskLevel:    domain.RiskHigh,
			Reasons:      []string{detection.ReasonSensitiveWords},
		}}
		app := newTestApp(svc)

		body := `{"url_length":44,"valid_url":1,"has_at_symbol":0,"sensitive_word_count":4,` +
			`"path_length":7,"is_https":0,"dot_count":1,"hyphen_count":3,"and_count":0,` +
			`"or_count":0,"www_count":0,"dotcom_count":1,"underscore_count":0}`
		status, envelope := doJSON(t, app, http.MethodPost, "/api/v1/check/features", body)

		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if envelope.Data.RiskLevel != string(domain.RiskHigh) {
			t.Errorf("risk_level = %q, want %q", envelope.Data.RiskLevel, domain.RiskHigh)
		}
		if svc.lastFeatures.SensitiveWordCount != 4 {
			t.Errorf("service received %+v", svc.lastFeatures)
		}
	})

	t.Run("negative count is rejected", func(t *testing.T) {
		svc := &fakeDetectService{}
		app := newTestApp(svc)

		status, envelope := doJSON(t, app, http.MethodPost, "/api/v1/check/features", `{"url_length":-1}`)

		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if envelope.Error.Code != "INVALID_INPUT" {
			t.Errorf("error code = %q, want INVALID_INPUT", envelope.Error.Code)
		}
		if svc.featureCalls != 0 {
			t.Errorf("service called %d times for invalid input, want 0", svc.featureCalls)
		}
	})

	t.Run("non-binary flag is rejected", func(t *testing.T) {
		app := newTestApp(&fakeDetectService{})

		status, envelope := doJSON(t, app, http.MethodPost, "/api/v1/check/features", `{"is_https":2}`)

		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if envelope.Error.Code != "INVALID_INPUT" {
			t.Errorf("error code = %q, want INVALID_INPUT", envelope.Error.Code)
		}
	})
}
