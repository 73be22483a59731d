package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
)

// InitMetrics creates the request instruments on the global meter provider, so
// it must run after telemetry.Init.
func InitMetrics() error {
	meter := otel.Meter("starwars-api")

	var err error

	requestCounter, err = meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	requestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	activeRequests, err = meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}

func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if requestCounter == nil || requestDuration == nil || activeRequests == nil {
				return next(c)
			}

			start := time.Now()
			ctx := c.Request().Context()

			routeAttrs := metric.WithAttributes(
				attribute.String("http.method", c.Request().Method),
				attribute.String("http.route", c.Path()),
			)

			activeRequests.Add(ctx, 1, routeAttrs)
			defer activeRequests.Add(ctx, -1, routeAttrs)

			err := next(c)
			if err != nil {
				// Render now so the recorded status is the one the client sees.
				c.Error(err)
			}

			attrs := metric.WithAttributes(
				attribute.String("http.method", c.Request().Method),
				attribute.String("http.route", c.Path()),
				attribute.Int("http.status_code", c.Response().Status),
			)

			requestCounter.Add(ctx, 1, attrs)
			requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

			return nil
		}
	}
}
