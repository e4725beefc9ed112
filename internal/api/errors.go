package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pankajredekar/shopadmin/internal/apperr"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    apperr.Kind    `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// handleError renders every error as {"error": {kind, message, details}}.
// Internal errors are logged and reported without their cause.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.errorResponse(err, c)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.log.Error("failed to write error response", zap.Error(err))
	}
}

func (s *Server) errorResponse(err error, c echo.Context) (int, errorBody) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		return appErr.Kind.Status(), errorBody{Error: errorDetail{
			Kind:    appErr.Kind,
			Message: appErr.Message,
			Details: appErr.Details,
		}}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
		return httpErr.Code, errorBody{Error: errorDetail{Kind: kindForStatus(httpErr.Code), Message: msg}}
	}

	s.log.Error("request failed",
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return http.StatusInternalServerError, errorBody{Error: errorDetail{
		Kind:    apperr.KindInternal,
		Message: "internal server error",
	}}
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperr.KindValidation
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusConflict:
		return apperr.KindConflict
	}
	return apperr.Kind(strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_"))
}
