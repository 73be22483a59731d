package handlers

import (
	"errors"
	"net/http"

	"starwars-api/internal/models"
	"starwars-api/internal/services"

	"github.com/labstack/echo/v4"
)

type PlanetHandler struct {
	planetService *services.PlanetService
}

func NewPlanetHandler(planetService *services.PlanetService) *PlanetHandler {
	return &PlanetHandler{planetService: planetService}
}

func (h *PlanetHandler) List(c echo.Context) error {
	planets, err := h.planetService.List(c.Request().Context())
	if err != nil {
		return failure(err, "failed to list planets")
	}

	response := make([]models.PlanetResponse, len(planets))
	for i := range planets {
		response[i] = planets[i].ToResponse()
	}
	return c.JSON(http.StatusOK, response)
}

func (h *PlanetHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	planet, err := h.planetService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPlanetNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Planet not found")
		}
		return failure(err, "failed to get planet")
	}

	return c.JSON(http.StatusOK, planet.ToResponse())
}
