package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mfgsight/qualitycast/internal/analytics/forecast"
	"github.com/mfgsight/qualitycast/internal/logging"
	"github.com/mfgsight/qualitycast/internal/models"
	"github.com/mfgsight/qualitycast/internal/services"
	"github.com/mfgsight/qualitycast/internal/utils"
)

// Summary handles POST /v1/analytics/summary
func (h *Handler) Summary(c *fiber.Ctx) error {
	var body models.SummaryRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	result, err := h.analytics.Summary(c.UserContext(), body.Values)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Forecast handles POST /v1/analytics/forecast
func (h *Handler) Forecast(c *fiber.Ctx) error {
	var body models.ForecastRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	result, err := h.analytics.Forecast(c.UserContext(), &services.ForecastRequest{
		Series:          body.Series,
		Method:          body.Method,
		Horizon:         body.Horizon,
		ConfidenceLevel: body.ConfidenceLevel,
		Alpha:           body.Alpha,
		SeasonalPeriod:  body.SeasonalPeriod,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Anomalies handles POST /v1/analytics/anomalies
func (h *Handler) Anomalies(c *fiber.Ctx) error {
	var body models.AnomalyRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	ctx := c.UserContext()
	if body.Source != "" {
		ctx = logging.WithSource(ctx, body.Source)
		c.SetUserContext(ctx)
	}

	result, err := h.analytics.DetectAnomalies(ctx, &services.AnomalyRequest{
		Series:      body.Series,
		Sensitivity: body.Sensitivity,
		Source:      body.Source,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Correlation handles POST /v1/analytics/correlation
func (h *Handler) Correlation(c *fiber.Ctx) error {
	var body models.CorrelationRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	result, err := h.analytics.Correlation(c.UserContext(), &services.CorrelationRequest{
		A:         body.A,
		B:         body.B,
		Variable1: body.Variable1,
		Variable2: body.Variable2,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Seasonality handles POST /v1/analytics/seasonality
func (h *Handler) Seasonality(c *fiber.Ctx) error {
	var body models.SeasonalityRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	result, err := h.analytics.Seasonality(c.UserContext(), &services.SeasonalityRequest{
		Series:    body.Series,
		MaxPeriod: body.MaxPeriod,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Batch handles POST /v1/analytics/batch
func (h *Handler) Batch(c *fiber.Ctx) error {
	var body models.BatchRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	items := make([]services.SeriesRequest, len(body.Items))
	for i, item := range body.Items {
		items[i] = services.SeriesRequest{
			ID:          item.ID,
			Series:      item.Series,
			Method:      item.Method,
			Horizon:     item.Horizon,
			Sensitivity: item.Sensitivity,
			MaxPeriod:   item.MaxPeriod,
		}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.analytics.AnalyzeBatch(ctx, items)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Methods handles GET /v1/analytics/methods
func (h *Handler) Methods(c *fiber.Ctx) error {
	return c.JSON(models.MethodsResponse{
		Methods: h.analytics.Methods(),
		Default: string(forecast.MethodLinear),
	})
}
