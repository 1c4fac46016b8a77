// Package handler exposes the competitor analysis engine over HTTP.
package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"rivalscan/internal/metrics"
	"rivalscan/pkg/analysis"
	"rivalscan/pkg/logger"
	"rivalscan/pkg/serp"
)

// AnalyzeHandler serves the competitor analysis API.
type AnalyzeHandler struct {
	engine   *analysis.Engine
	client   serp.Client
	timeout  time.Duration
	validate *validator.Validate
	log      *logger.Logger
}

// New creates the handler. timeout bounds one whole analysis; the engine
// returns a partial result when it expires mid-batch.
func New(engine *analysis.Engine, client serp.Client, timeout time.Duration) *AnalyzeHandler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &AnalyzeHandler{
		engine:   engine,
		client:   client,
		timeout:  timeout,
		validate: validator.New(),
		log:      logger.GetLogger().Component("analyze_handler"),
	}
}

// Register mounts the API routes.
func (h *AnalyzeHandler) Register(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Post("/competitors/analyze", h.Analyze)
	app.Get("/healthz", h.Health)
}

// Analyze runs one competitor analysis.
//
// Malformed input is a 400 and never reaches the provider. A provider
// without credentials is a 422 with a structured not-configured body. Any
// unexpected failure degrades to a well-formed serper_failed body with a
// 500, never a crash or a partial payload.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) (err error) {
	requestID := uuid.NewString()
	log := h.log.WithField("request_id", requestID)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Analysis panicked")
			metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			err = c.Status(fiber.StatusInternalServerError).
				JSON(analysis.FailedReport(fmt.Sprintf("unexpected failure: %v", r)))
		}
	}()

	var req analysis.Request
	if err := c.BodyParser(&req); err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		return badRequest(c, "invalid request body: "+err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		return badRequest(c, validationMessage(err))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	report, err := h.engine.Analyze(ctx, req)
	if err != nil {
		if errors.Is(err, serp.ErrNotConfigured) {
			log.Warn("Analysis rejected: SERP provider not configured")
			metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeNotConfigured).Inc()
			return c.Status(fiber.StatusUnprocessableEntity).JSON(report)
		}
		log.WithError(err).Error("Analysis failed")
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return c.Status(fiber.StatusInternalServerError).
			JSON(analysis.FailedReport(err.Error()))
	}

	log.WithFields(map[string]interface{}{
		"domain":          req.Domain,
		"competitors":     len(report.Competitors),
		"keywords_failed": report.KeywordsFailed,
	}).Info("Analysis completed")

	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return c.JSON(report)
}

// Health reports liveness and whether the SERP provider is usable.
func (h *AnalyzeHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "ok",
		"serperConfigured": h.client.Configured(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		if field == "Domain" {
			return "domain is required"
		}
		return fmt.Sprintf("invalid field: %s", field)
	}
	return "invalid request"
}
