package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"starwars-api/internal/logging"
	"starwars-api/internal/models"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"gorm.io/gorm"
)

const TypeFavoriteChanged = "favorite:changed"

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

var (
	tracer        = otel.Tracer("starwars-api-worker")
	meter         = otel.Meter("starwars-api-worker")
	jobsCompleted metric.Int64Counter
	jobsFailed    metric.Int64Counter
	jobsDuration  metric.Float64Histogram
)

func init() {
	var err error

	jobsCompleted, err = meter.Int64Counter(
		"jobs.completed",
		metric.WithDescription("Total number of jobs completed successfully"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs completed counter")
	}

	jobsFailed, err = meter.Int64Counter(
		"jobs.failed",
		metric.WithDescription("Total number of jobs failed"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs failed counter")
	}

	jobsDuration, err = meter.Float64Histogram(
		"jobs.duration_ms",
		metric.WithDescription("Job processing duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs duration histogram")
	}
}

type FavoriteChangedPayload struct {
	UserID       uint                  `json:"user_id"`
	Target       models.FavoriteTarget `json:"target"`
	TargetID     uint                  `json:"target_id"`
	Action       string                `json:"action"`
	TraceContext map[string]string     `json:"trace_context"`
}

// FavoriteCounter keeps favorites_count on planets and people in step with
// the favorites table.
type FavoriteCounter struct {
	db *gorm.DB
}

func NewFavoriteCounter(db *gorm.DB) *FavoriteCounter {
	return &FavoriteCounter{db: db}
}

func (h *FavoriteCounter) HandleFavoriteChanged(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	var payload FavoriteChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		recordJobMetrics(ctx, TypeFavoriteChanged, false, time.Since(start))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if !payload.Target.Valid() {
		recordJobMetrics(ctx, TypeFavoriteChanged, false, time.Since(start))
		return fmt.Errorf("unknown favorite target %q: %w", payload.Target, asynq.SkipRetry)
	}

	parentCtx := otel.GetTextMapPropagator().Extract(
		ctx,
		propagation.MapCarrier(payload.TraceContext),
	)

	ctx, span := tracer.Start(parentCtx, "job.favorite_changed")
	defer span.End()

	span.SetAttributes(
		attribute.String("job.type", TypeFavoriteChanged),
		attribute.String("favorite.target", string(payload.Target)),
		attribute.Int64("favorite.target_id", int64(payload.TargetID)),
		attribute.String("favorite.action", payload.Action),
	)

	count, found, err := Recount(ctx, h.db, payload.Target, payload.TargetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recount failed")
		recordJobMetrics(ctx, TypeFavoriteChanged, false, time.Since(start))
		return err
	}

	if !found {
		logging.Warn(ctx).
			Str("target", string(payload.Target)).
			Uint("target_id", payload.TargetID).
			Msg("favorite references a missing record, counter not updated")
	}

	span.SetStatus(codes.Ok, "favorites recounted")
	span.SetAttributes(attribute.Int64("favorite.count", count))

	logging.Info(ctx).
		Str("target", string(payload.Target)).
		Uint("target_id", payload.TargetID).
		Int64("favorites_count", count).
		Msg("favorites recounted")

	recordJobMetrics(ctx, TypeFavoriteChanged, true, time.Since(start))
	return nil
}

// Recount stores the current number of favorites pointing at the record.
// found is false when the record itself does not exist.
func Recount(ctx context.Context, db *gorm.DB, target models.FavoriteTarget, targetID uint) (count int64, found bool, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Favorite{}).
			Where(target.Column()+" = ?", targetID).
			Count(&count).Error; err != nil {
			return err
		}

		var model interface{} = &models.Planet{}
		if target == models.TargetPeople {
			model = &models.People{}
		}

		result := tx.Model(model).Where("id = ?", targetID).Update("favorites_count", count)
		if result.Error != nil {
			return result.Error
		}
		found = result.RowsAffected > 0
		return nil
	})
	return count, found, err
}

func recordJobMetrics(ctx context.Context, jobType string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("job.type", jobType),
	}

	if success {
		if jobsCompleted != nil {
			jobsCompleted.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	} else {
		if jobsFailed != nil {
			jobsFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}

	if jobsDuration != nil {
		jobsDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	}
}
