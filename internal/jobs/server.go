package jobs

import (
	"context"

	"starwars-api/internal/jobs/tasks"
	"starwars-api/internal/logging"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewServer(redisAddr string, concurrency int, db *gorm.DB) *Server {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				DefaultQueue: 10,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logging.Error(ctx).
					Err(err).
					Str("task_type", task.Type()).
					Msg("task failed")
			}),
		},
	)

	return &Server{
		server: server,
		mux:    NewServeMux(db),
	}
}

func NewServeMux(db *gorm.DB) *asynq.ServeMux {
	counter := tasks.NewFavoriteCounter(db)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeFavoriteChanged, counter.HandleFavoriteChanged)
	return mux
}

func (s *Server) Start() error {
	logging.Logger().Info().Msg("starting asynq worker")
	return s.server.Start(s.mux)
}

func (s *Server) Shutdown() {
	logging.Logger().Info().Msg("shutting down asynq worker")
	s.server.Shutdown()
}
