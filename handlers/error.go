package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"iotview/gateway"
)

// NewHTTPErrorHandler builds the central error handler for the Echo
// application. Gateway errors keep their user-facing message and map their
// kind to a status; everything else is a generic 500.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	errorLogger := logger.With("component", "error_handler")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var gatewayErr *gateway.Error
		if errors.As(err, &gatewayErr) {
			status := http.StatusBadGateway
			if gatewayErr.Kind == gateway.KindAuth {
				status = http.StatusUnauthorized
			}
			if internal := gatewayErr.Unwrap(); internal != nil {
				errorLogger.Info("gateway error handled",
					"status_code", status,
					"error_message", gatewayErr.Message,
					slog.Any("internal_error", internal))
			}
			c.JSON(status, ErrorResponse(gatewayErr.Message))
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			c.JSON(httpErr.Code, ErrorResponse(fmt.Sprintf("%v", httpErr.Message)))
			return
		}

		errorLogger.Error("unhandled error occurred",
			"error_type", fmt.Sprintf("%T", err),
			"error_message", err.Error(),
			slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, ErrorResponse("An unexpected internal error occurred."))
	}
}
