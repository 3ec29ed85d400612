package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mfgsight/qualitycast/internal/logging"
	"github.com/mfgsight/qualitycast/internal/models"
	"github.com/mfgsight/qualitycast/internal/services"
)

// serviceStatus maps service error codes to HTTP statuses
var serviceStatus = map[string]int{
	services.CodeInsufficientData: fiber.StatusUnprocessableEntity,
	services.CodeLengthMismatch:   fiber.StatusUnprocessableEntity,
	services.CodeInvalidRequest:   fiber.StatusBadRequest,
	services.CodeInvalidMethod:    fiber.StatusBadRequest,
	services.CodeCancelled:        fiber.StatusRequestTimeout,
	services.CodeInternal:         fiber.StatusInternalServerError,
}

// StatusFor returns the HTTP status for a service error code
func StatusFor(code string) int {
	if status, ok := serviceStatus[code]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders errors returned by handlers as models.ErrorResponse.
// Service errors keep their code and details; fiber errors keep their status.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    "ERROR",
			Message: "Internal Server Error",
		}

		var fiberErr *fiber.Error
		var svcErr *services.ServiceError
		switch {
		case errors.As(err, &svcErr):
			status = StatusFor(svcErr.Code)
			detail = models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			}
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			detail.Message = fiberErr.Message
		}

		log := logger.WithContext(c.UserContext())

		fields := []interface{}{
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"code", detail.Code,
			"error", err,
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("Request error", fields...)
		} else {
			log.Warn("Request rejected", fields...)
		}

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}
