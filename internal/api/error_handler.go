package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/greenhaven/storefront/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields,omitempty"`
	RetryAfter int               `json:"retry_after,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain and backend errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Fields: ve.Fields}
	}

	var rn *domain.ResendNotReadyError
	if errors.As(err, &rn) {
		c.Response().Header().Set("Retry-After", fmt.Sprint(rn.RetryAfter))
		return http.StatusTooManyRequests, errorResponse{Error: rn.Error(), RetryAfter: rn.RetryAfter}
	}

	// Backend rejections keep the backend's own message.
	var be *domain.BackendError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = http.StatusText(be.Status)
		}
		if be.Status >= 400 && be.Status < 500 {
			return be.Status, errorResponse{Error: msg}
		}
		log.Warn().
			Int("backend_status", be.Status).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend failure")
		return http.StatusBadGateway, errorResponse{Error: msg}
	}

	switch {
	case errors.Is(err, domain.ErrBackendUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		return http.StatusBadGateway, errorResponse{Error: "backend unavailable"}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrInvalidFlowStep):
		return http.StatusConflict, errorResponse{Error: domain.ErrInvalidFlowStep.Error()}
	case errors.Is(err, domain.ErrRequestPending):
		return http.StatusConflict, errorResponse{Error: domain.ErrRequestPending.Error()}
	case errors.Is(err, domain.ErrOTPRejected):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrOTPRejected.Error()}
	case errors.Is(err, domain.ErrNoCart):
		return http.StatusConflict, errorResponse{Error: domain.ErrNoCart.Error()}
	case errors.Is(err, domain.ErrFlowNotFound):
		return http.StatusNotFound, errorResponse{Error: domain.ErrFlowNotFound.Error()}
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, errorResponse{Error: domain.ErrProductNotFound.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
