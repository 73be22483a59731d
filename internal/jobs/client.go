package jobs

import (
	"context"
	"encoding/json"

	"starwars-api/internal/jobs/tasks"
	"starwars-api/internal/logging"
	"starwars-api/internal/models"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

const DefaultQueue = "default"

var (
	tracer       = otel.Tracer("starwars-api")
	meter        = otel.Meter("starwars-api")
	jobsEnqueued metric.Int64Counter
)

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) (*Client, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	var err error
	jobsEnqueued, err = meter.Int64Counter(
		"jobs.enqueued",
		metric.WithDescription("Total number of jobs enqueued"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs enqueued counter")
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NewFavoriteChangedTask builds the task and carries the caller's trace
// context so the worker span joins the request trace.
func NewFavoriteChangedTask(ctx context.Context, userID uint, target models.FavoriteTarget, targetID uint, action string) (*asynq.Task, error) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	payload := tasks.FavoriteChangedPayload{
		UserID:       userID,
		Target:       target,
		TargetID:     targetID,
		Action:       action,
		TraceContext: carrier,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(tasks.TypeFavoriteChanged, payloadBytes, asynq.Queue(DefaultQueue), asynq.MaxRetry(5)), nil
}

func (c *Client) EnqueueFavoriteChanged(ctx context.Context, userID uint, target models.FavoriteTarget, targetID uint, action string) error {
	ctx, span := tracer.Start(ctx, "job.enqueue.favorite_changed")
	defer span.End()

	span.SetAttributes(
		attribute.String("job.type", tasks.TypeFavoriteChanged),
		attribute.String("favorite.target", string(target)),
		attribute.Int64("favorite.target_id", int64(targetID)),
		attribute.String("favorite.action", action),
	)

	task, err := NewFavoriteChangedTask(ctx, userID, target, targetID, action)
	if err != nil {
		span.RecordError(err)
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if jobsEnqueued != nil {
		jobsEnqueued.Add(ctx, 1, metric.WithAttributes(
			attribute.String("job.type", tasks.TypeFavoriteChanged),
		))
	}

	span.SetAttributes(
		attribute.String("job.id", info.ID),
		attribute.String("job.queue", info.Queue),
	)

	logging.Info(ctx).
		Str("job_id", info.ID).
		Str("job_type", tasks.TypeFavoriteChanged).
		Str("target", string(target)).
		Uint("target_id", targetID).
		Msg("job enqueued")

	return nil
}
