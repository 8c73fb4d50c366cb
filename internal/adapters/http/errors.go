package httpadapter

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var ve *domain.ValidationError
	var ce *domain.CollaboratorError

	switch {
	case errors.As(err, &ve), errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &ce):
		// a provider refusal without an underlying failure
		if ce.Err == nil {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Please enter a message."
	case http.StatusUnauthorized:
		return "Please sign in to continue."
	case http.StatusForbidden:
		return "You do not have access to this resource."
	case http.StatusNotFound:
		return "Not found."
	case http.StatusConflict:
		return "This study session has ended."
	case http.StatusServiceUnavailable:
		return "This feature is not available right now."
	case http.StatusGatewayTimeout:
		return "The request timed out. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// writeError answers with the user-facing message carried by err, or a
// generic one for its status.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	msg, ok := domain.UserMessage(err)
	if !ok {
		msg = defaultMessage(status)
	}

	log := observability.LoggerFromContext(c.Request().Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "status", status, "error", err)
	} else {
		log.Debug("request rejected", "path", c.Path(), "status", status, "error", err)
	}

	return c.JSON(status, errorResponse{Error: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
