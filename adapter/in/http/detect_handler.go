package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"detection_server/core/domain"
	"detection_server/core/port/in"
	"detection_server/core/service/detection"
	"detection_server/pkg/apperr"
	"detection_server/pkg/response"
)

// DetectHandler handles URL detection API endpoints.
type DetectHandler struct {
	service in.DetectService
}

// NewDetectHandler creates a new DetectHandler.
func NewDetectHandler(service in.DetectService) *DetectHandler {
	return &DetectHandler{service: service}
}

// Register registers detection routes.
func (h *DetectHandler) Register(app fiber.Router) {
	app.Post("/check", h.CheckURL)
	app.Post("/check/features", h.CheckFeatures)
}

// CheckURLRequest is the body for POST /check.
type CheckURLRequest struct {
	URL string `json:"url"`
}

// CheckURL runs the full decision pipeline on a raw URL.
func (h *DetectHandler) CheckURL(c *fiber.Ctx) error {
	var req CheckURLRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	verdict, err := h.service.CheckURL(c.Context(), req.URL)
	if err != nil {
		if errors.Is(err, detection.ErrEmptyURL) {
			return apperr.InvalidInput("url", "must not be empty")
		}
		return apperr.InternalWithError(err)
	}

	return response.OK(c, verdict)
}

// CheckFeatures scores a pre-extracted feature vector, skipping the
// rule stages. Intended for batch tooling and model debugging.
func (h *DetectHandler) CheckFeatures(c *fiber.Ctx) error {
	var req domain.FeatureVector
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := validateFeatures(req); err != nil {
		return err
	}

	verdict, err := h.service.CheckFeatures(c.Context(), req)
	if err != nil {
		return apperr.InternalWithError(err)
	}

	return response.OK(c, verdict)
}

func validateFeatures(f domain.FeatureVector) error {
	counts := map[string]int{
		"url_length":           f.URLLength,
		"sensitive_word_count": f.SensitiveWordCount,
		"path_length":          f.PathLength,
		"dot_count":            f.DotCount,
		"hyphen_count":         f.HyphenCount,
		"and_count":            f.AndCount,
		"or_count":             f.OrCount,
		"www_count":            f.WWWCount,
		"dotcom_count":         f.DotComCount,
		"underscore_count":     f.UnderscoreCount,
	}
	for field, v := range counts {
		if v < 0 {
			return apperr.InvalidInput(field, "must not be negative")
		}
	}

	flags := map[string]int{
		"valid_url":     f.ValidURL,
		"has_at_symbol": f.HasAtSymbol,
		"is_https":      f.IsHTTPS,
	}
	for field, v := range flags {
		if v != 0 && v != 1 {
			return apperr.InvalidInput(field, "must be 0 or 1")
		}
	}
	return nil
}
