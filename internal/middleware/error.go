package middleware

import (
	"net/http"

	"starwars-api/internal/logging"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	ctx := c.Request().Context()
	span := trace.SpanFromContext(ctx)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var code int
	var message string

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(he.Code)
		}
	} else {
		code = http.StatusInternalServerError
		message = "internal server error"
	}

	span.SetAttributes(attribute.Int("http.response.status_code", code))

	var traceID string
	if span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	event := logging.Warn(ctx)
	if code >= http.StatusInternalServerError {
		event = logging.Error(ctx)
	}
	event.
		Err(err).
		Int("status", code).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("request error")

	response := ErrorResponse{
		Error:   message,
		TraceID: traceID,
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, response)
	}
	if err != nil {
		logging.Error(ctx).Err(err).Msg("failed to write error response")
	}
}
