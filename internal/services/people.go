package services

import (
	"context"
	"errors"

	"starwars-api/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type PeopleService struct {
	db *gorm.DB
}

func NewPeopleService(db *gorm.DB) *PeopleService {
	return &PeopleService{db: db}
}

func (s *PeopleService) List(ctx context.Context) ([]models.People, error) {
	ctx, span := tracer.Start(ctx, "people.list")
	defer span.End()

	people := make([]models.People, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&people).Error; err != nil {
		return nil, storageError(ctx, s.db, span, err)
	}

	span.SetAttributes(attribute.Int("result.count", len(people)))
	return people, nil
}

func (s *PeopleService) GetByID(ctx context.Context, id uint) (*models.People, error) {
	ctx, span := tracer.Start(ctx, "people.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("people.id", int64(id)))

	var person models.People
	if err := s.db.WithContext(ctx).First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, storageError(ctx, s.db, span, err)
	}

	return &person, nil
}
