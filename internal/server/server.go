package server

import (
	"starwars-api/internal/handlers"
	"starwars-api/internal/logging"
	"starwars-api/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

type Options struct {
	ServiceName string
	// Tracing wraps every request in an otelecho server span.
	Tracing bool
	// Users decides which user the favorites routes act as.
	Users middleware.UserResolver
}

type Handlers struct {
	People    *handlers.PeopleHandler
	Planets   *handlers.PlanetHandler
	Users     *handlers.UserHandler
	Favorites *handlers.FavoriteHandler
	Health    *handlers.HealthHandler
}

func New(opts Options, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Pre(echomiddleware.RemoveTrailingSlash())

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if opts.Tracing {
		e.Use(otelecho.Middleware(opts.ServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		})))
	}
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORS())
	e.Use(requestLogger())

	sitemap := handlers.NewSitemapHandler(e.Routes)
	e.GET("/", sitemap.List)
	e.GET("/health", h.Health.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/people", h.People.List)
	e.GET("/people/:id", h.People.Get)
	e.GET("/planets", h.Planets.List)
	e.GET("/planets/:id", h.Planets.Get)
	e.GET("/users", h.Users.List)

	identity := middleware.Identity(opts.Users)
	e.GET("/users/favorites", h.Favorites.List, identity)
	e.POST("/favorite/planet/:id", h.Favorites.AddPlanet, identity)
	e.POST("/favorite/people/:id", h.Favorites.AddPeople, identity)
	e.DELETE("/favorite/planet/:id", h.Favorites.RemovePlanet, identity)
	e.DELETE("/favorite/people/:id", h.Favorites.RemovePeople, identity)

	return e
}

func requestLogger() echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			logging.Debug(c.Request().Context()).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				AnErr("error", v.Error).
				Msg("request")
			return nil
		},
	})
}
