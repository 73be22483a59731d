package handlers

import (
	"context"
	"errors"
	"net/http"

	"starwars-api/internal/jobs/tasks"
	"starwars-api/internal/logging"
	"starwars-api/internal/middleware"
	"starwars-api/internal/models"
	"starwars-api/internal/services"

	"github.com/labstack/echo/v4"
)

// FavoriteNotifier is told about every favorite that was added or removed.
type FavoriteNotifier interface {
	EnqueueFavoriteChanged(ctx context.Context, userID uint, target models.FavoriteTarget, targetID uint, action string) error
}

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	notifier        FavoriteNotifier
}

// NewFavoriteHandler accepts a nil notifier when no job queue is configured.
func NewFavoriteHandler(favoriteService *services.FavoriteService, notifier FavoriteNotifier) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		notifier:        notifier,
	}
}

var (
	addedMessages = map[models.FavoriteTarget]string{
		models.TargetPlanet: "Planet added to favorites",
		models.TargetPeople: "Person added to favorites",
	}
	removedMessages = map[models.FavoriteTarget]string{
		models.TargetPlanet: "Planet removed from favorites",
		models.TargetPeople: "Person removed from favorites",
	}
)

func (h *FavoriteHandler) List(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	favorites, err := h.favoriteService.List(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return failure(err, "failed to list favorites")
	}

	response := make([]models.FavoriteResponse, len(favorites))
	for i := range favorites {
		response[i] = favorites[i].ToResponse()
	}
	return c.JSON(http.StatusOK, response)
}

func (h *FavoriteHandler) AddPlanet(c echo.Context) error {
	return h.add(c, models.TargetPlanet)
}

func (h *FavoriteHandler) AddPeople(c echo.Context) error {
	return h.add(c, models.TargetPeople)
}

func (h *FavoriteHandler) RemovePlanet(c echo.Context) error {
	return h.remove(c, models.TargetPlanet)
}

func (h *FavoriteHandler) RemovePeople(c echo.Context) error {
	return h.remove(c, models.TargetPeople)
}

func (h *FavoriteHandler) add(c echo.Context, target models.FavoriteTarget) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.favoriteService.Add(ctx, userID, target, targetID); err != nil {
		return failure(err, "failed to add favorite")
	}

	h.notify(ctx, userID, target, targetID, tasks.ActionAdded)
	return c.JSON(http.StatusOK, MessageResponse{Msg: addedMessages[target]})
}

func (h *FavoriteHandler) remove(c echo.Context, target models.FavoriteTarget) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.favoriteService.Remove(ctx, userID, target, targetID); err != nil {
		if errors.Is(err, services.ErrFavoriteNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Favorite not found")
		}
		return failure(err, "failed to remove favorite")
	}

	h.notify(ctx, userID, target, targetID, tasks.ActionRemoved)
	return c.JSON(http.StatusOK, MessageResponse{Msg: removedMessages[target]})
}

// notify is best effort; the favorite itself is already committed.
func (h *FavoriteHandler) notify(ctx context.Context, userID uint, target models.FavoriteTarget, targetID uint, action string) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.EnqueueFavoriteChanged(ctx, userID, target, targetID, action); err != nil {
		logging.Warn(ctx).
			Err(err).
			Str("target", string(target)).
			Uint("target_id", targetID).
			Msg("failed to enqueue favorite change")
	}
}
