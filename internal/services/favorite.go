package services

import (
	"context"
	"errors"

	"starwars-api/internal/logging"
	"starwars-api/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

var favoritesChangedCounter metric.Int64Counter

// FavoriteService manages the favorites association of a user. Adding does
// not check that the target exists and does not deduplicate; removing deletes
// the oldest matching row only.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	var err error
	favoritesChangedCounter, err = meter.Int64Counter(
		"favorites.changed",
		metric.WithDescription("Total number of favorites added or removed"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create favorites counter")
	}

	return &FavoriteService{db: db}
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	ctx, span := tracer.Start(ctx, "favorite.list")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError(ctx, s.db, span, err)
	}

	favorites := make([]models.Favorite, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&favorites).Error; err != nil {
		return nil, storageError(ctx, s.db, span, err)
	}

	span.SetAttributes(attribute.Int("result.count", len(favorites)))
	return favorites, nil
}

func (s *FavoriteService) AddPlanet(ctx context.Context, userID, planetID uint) (*models.Favorite, error) {
	return s.Add(ctx, userID, models.TargetPlanet, planetID)
}

func (s *FavoriteService) AddPeople(ctx context.Context, userID, peopleID uint) (*models.Favorite, error) {
	return s.Add(ctx, userID, models.TargetPeople, peopleID)
}

func (s *FavoriteService) RemovePlanet(ctx context.Context, userID, planetID uint) (*models.Favorite, error) {
	return s.Remove(ctx, userID, models.TargetPlanet, planetID)
}

func (s *FavoriteService) RemovePeople(ctx context.Context, userID, peopleID uint) (*models.Favorite, error) {
	return s.Remove(ctx, userID, models.TargetPeople, peopleID)
}

func (s *FavoriteService) Add(ctx context.Context, userID uint, target models.FavoriteTarget, targetID uint) (*models.Favorite, error) {
	ctx, span := tracer.Start(ctx, "favorite.add")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.String("favorite.target", string(target)),
		attribute.Int64("favorite.target_id", int64(targetID)),
	)

	favorite := models.NewFavorite(userID, target, targetID)
	if err := s.db.WithContext(ctx).Create(&favorite).Error; err != nil {
		if errors.Is(err, models.ErrInvalidFavoriteTarget) {
			return nil, err
		}
		return nil, storageError(ctx, s.db, span, err)
	}

	s.recordChange(ctx, target, "added")
	span.SetAttributes(attribute.Int64("favorite.id", int64(favorite.ID)))

	logging.Info(ctx).
		Uint("favorite_id", favorite.ID).
		Uint("user_id", userID).
		Str("target", string(target)).
		Uint("target_id", targetID).
		Msg("favorite added")

	return &favorite, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uint, target models.FavoriteTarget, targetID uint) (*models.Favorite, error) {
	ctx, span := tracer.Start(ctx, "favorite.remove")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.String("favorite.target", string(target)),
		attribute.Int64("favorite.target_id", int64(targetID)),
	)

	if !target.Valid() {
		return nil, models.ErrInvalidFavoriteTarget
	}

	var favorite models.Favorite
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ?", userID).
			Where(target.Column()+" = ?", targetID).
			Order("id").
			First(&favorite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFavoriteNotFound
			}
			return err
		}

		result := tx.Delete(&favorite)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrFavoriteNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFavoriteNotFound) {
			return nil, err
		}
		return nil, storageError(ctx, s.db, span, err)
	}

	s.recordChange(ctx, target, "removed")

	logging.Info(ctx).
		Uint("favorite_id", favorite.ID).
		Uint("user_id", userID).
		Str("target", string(target)).
		Uint("target_id", targetID).
		Msg("favorite removed")

	return &favorite, nil
}

func (s *FavoriteService) recordChange(ctx context.Context, target models.FavoriteTarget, action string) {
	if favoritesChangedCounter != nil {
		favoritesChangedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("favorite.target", string(target)),
			attribute.String("favorite.action", action),
		))
	}
}
