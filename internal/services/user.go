package services

import (
	"context"
	"errors"

	"starwars-api/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	ctx, span := tracer.Start(ctx, "user.list")
	defer span.End()

	users := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, storageError(ctx, s.db, span, err)
	}

	span.SetAttributes(attribute.Int("result.count", len(users)))
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError(ctx, s.db, span, err)
	}

	return &user, nil
}
