package handlers

import (
	"context"
	"net/http"
	"time"

	"starwars-api/internal/database"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

type HealthHandler struct {
	db        *gorm.DB
	redisAddr string
}

// NewHealthHandler skips the queue check when redisAddr is empty.
func NewHealthHandler(db *gorm.DB, redisAddr string) *HealthHandler {
	return &HealthHandler{db: db, redisAddr: redisAddr}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	dbCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	dbStatus := statusHealthy
	if err := database.CheckHealth(dbCtx, h.db); err != nil {
		dbStatus = statusUnhealthy
	}

	redisStatus := statusDisabled
	if h.redisAddr != "" {
		redisStatus = statusHealthy
		if err := h.checkRedis(ctx); err != nil {
			redisStatus = statusUnhealthy
		}
	}

	overallStatus := statusHealthy
	statusCode := http.StatusOK
	if dbStatus == statusUnhealthy || redisStatus == statusUnhealthy {
		overallStatus = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, HealthResponse{
		Status:   overallStatus,
		Database: dbStatus,
		Redis:    redisStatus,
	})
}

func (h *HealthHandler) checkRedis(ctx context.Context) error {
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: h.redisAddr})
	defer inspector.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := inspector.Queues()
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
