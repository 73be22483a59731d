package handlers

import (
	"net/http"

	"starwars-api/internal/models"
	"starwars-api/internal/services"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return failure(err, "failed to list users")
	}

	response := make([]models.UserResponse, len(users))
	for i := range users {
		response[i] = users[i].ToResponse()
	}
	return c.JSON(http.StatusOK, response)
}
