package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mfgsight/qualitycast/internal/logging"
	"github.com/mfgsight/qualitycast/internal/models"
	"github.com/mfgsight/qualitycast/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger    *logging.Logger
	analytics *services.AnalyticsService
	queueType string
}

// New creates a new handler instance
func New(logger *logging.Logger, analytics *services.AnalyticsService, queueType string) *Handler {
	return &Handler{
		logger:    logger,
		analytics: analytics,
		queueType: queueType,
	}
}

// invalidJSON renders the response for a body that failed to parse
func invalidJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_JSON",
			Message: "Failed to parse JSON body",
			Details: map[string]interface{}{"error": err.Error()},
		},
	})
}
