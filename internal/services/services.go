package services

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/internal/database"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var (
	tracer = otel.Tracer("starwars-api")
	meter  = otel.Meter("starwars-api")
)

var (
	ErrPersonNotFound   = errors.New("person not found")
	ErrPlanetNotFound   = errors.New("planet not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrFavoriteNotFound = errors.New("favorite not found")

	ErrStorageUnavailable = errors.New("storage unavailable")
)

// storageError tags failures caused by an unreachable store so handlers can
// answer 503 instead of 500.
func storageError(ctx context.Context, db *gorm.DB, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if database.Unavailable(ctx, db, err) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}
