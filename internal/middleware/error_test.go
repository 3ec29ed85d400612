package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfgsight/qualitycast/internal/logging"
	"github.com/mfgsight/qualitycast/internal/models"
	"github.com/mfgsight/qualitycast/internal/services"
)

func serveError(t *testing.T, handlerErr error) (int, models.ErrorResponse) {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(logging.NewNop()),
	})
	app.Get("/test", func(c *fiber.Ctx) error {
		return handlerErr
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	return resp.StatusCode, errResp
}

func TestErrorHandler_FiberError(t *testing.T) {
	tests := []struct {
		name           string
		fiberError     *fiber.Error
		expectedStatus int
		expectedMsg    string
	}{
		{"BadRequest", fiber.ErrBadRequest, fiber.StatusBadRequest, "Bad Request"},
		{"NotFound", fiber.ErrNotFound, fiber.StatusNotFound, "Not Found"},
		{"RequestEntityTooLarge", fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"Custom", fiber.NewError(fiber.StatusTeapot, "I'm a teapot"), fiber.StatusTeapot, "I'm a teapot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errResp := serveError(t, tt.fiberError)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMsg, errResp.Error.Message)
			assert.Equal(t, "ERROR", errResp.Error.Code)
		})
	}
}

func TestErrorHandler_ServiceError(t *testing.T) {
	tests := []struct {
		code           string
		expectedStatus int
	}{
		{services.CodeInsufficientData, fiber.StatusUnprocessableEntity},
		{services.CodeLengthMismatch, fiber.StatusUnprocessableEntity},
		{services.CodeInvalidRequest, fiber.StatusBadRequest},
		{services.CodeInvalidMethod, fiber.StatusBadRequest},
		{services.CodeCancelled, fiber.StatusRequestTimeout},
		{services.CodeInternal, fiber.StatusInternalServerError},
		{"SOMETHING_NEW", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svcErr := services.NewServiceErrorWithDetails(tt.code, "message for "+tt.code,
				map[string]interface{}{"hint": "x"})

			status, errResp := serveError(t, svcErr)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.code, errResp.Error.Code)
			assert.Equal(t, "message for "+tt.code, errResp.Error.Message)
			assert.Equal(t, "x", errResp.Error.Details["hint"])
		})
	}
}

func TestErrorHandler_WrappedServiceError(t *testing.T) {
	wrapped := fmt.Errorf("forecast: %w", services.NewServiceError(services.CodeInsufficientData, "need 3"))

	status, errResp := serveError(t, wrapped)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, services.CodeInsufficientData, errResp.Error.Code)
}

func TestErrorHandler_GenericError(t *testing.T) {
	status, errResp := serveError(t, errors.New("something went wrong"))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "ERROR", errResp.Error.Code)
	assert.Equal(t, "Internal Server Error", errResp.Error.Message)
}
