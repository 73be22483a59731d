package handlers

import (
	"errors"
	"net/http"

	"starwars-api/internal/models"
	"starwars-api/internal/services"

	"github.com/labstack/echo/v4"
)

type PeopleHandler struct {
	peopleService *services.PeopleService
}

func NewPeopleHandler(peopleService *services.PeopleService) *PeopleHandler {
	return &PeopleHandler{peopleService: peopleService}
}

func (h *PeopleHandler) List(c echo.Context) error {
	people, err := h.peopleService.List(c.Request().Context())
	if err != nil {
		return failure(err, "failed to list people")
	}

	response := make([]models.PeopleResponse, len(people))
	for i := range people {
		response[i] = people[i].ToResponse()
	}
	return c.JSON(http.StatusOK, response)
}

func (h *PeopleHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	person, err := h.peopleService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPersonNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Person not found")
		}
		return failure(err, "failed to get person")
	}

	return c.JSON(http.StatusOK, person.ToResponse())
}
