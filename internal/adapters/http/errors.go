package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
)

// Fixed messages for requests that never reach a service
const (
	msgInvalidBody = "Invalid request body"
	msgNotFound    = "Not found"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error" example:"Task not found"`
}

// mapError classifies a service error. Client errors keep their own message;
// anything else is logged and replaced by the fixed fallback message.
func mapError(log *logger.Logger, err error, fallback string) *echo.HTTPError {
	var (
		ve *entities.ValidationError
		re *entities.ReferenceError
		ge *entities.GuardError
		nf *entities.NotFoundError
	)

	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.As(err, &re):
		return echo.NewHTTPError(http.StatusBadRequest, re.Error())
	case errors.As(err, &ge):
		return echo.NewHTTPError(http.StatusBadRequest, ge.Error())
	case errors.As(err, &nf):
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	}

	log.LogStoreFailure(fallback, err)
	return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
}

func invalidBody(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
}

// ErrorHandler renders every echo error as {"error": message}
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		} else {
			log.Errorw("Unhandled request error", "error", err, "path", c.Request().URL.Path)
		}

		if errors.Is(err, echo.ErrNotFound) {
			message = msgNotFound
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Error: message})
		}
		if err != nil {
			log.Errorw("Failed to write error response", "error", err)
		}
	}
}
