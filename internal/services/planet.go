package services

import (
	"context"
	"errors"

	"starwars-api/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type PlanetService struct {
	db *gorm.DB
}

func NewPlanetService(db *gorm.DB) *PlanetService {
	return &PlanetService{db: db}
}

func (s *PlanetService) List(ctx context.Context) ([]models.Planet, error) {
	ctx, span := tracer.Start(ctx, "planet.list")
	defer span.End()

	planets := make([]models.Planet, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&planets).Error; err != nil {
		return nil, storageError(ctx, s.db, span, err)
	}

	span.SetAttributes(attribute.Int("result.count", len(planets)))
	return planets, nil
}

func (s *PlanetService) GetByID(ctx context.Context, id uint) (*models.Planet, error) {
	ctx, span := tracer.Start(ctx, "planet.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("planet.id", int64(id)))

	var planet models.Planet
	if err := s.db.WithContext(ctx).First(&planet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanetNotFound
		}
		return nil, storageError(ctx, s.db, span, err)
	}

	return &planet, nil
}
