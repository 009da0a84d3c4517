package queue

import (
	"context"
	"fmt"

	"clinic-booking/core/config"
	"clinic-booking/core/constants"
	"clinic-booking/core/logger"

	"github.com/hibiken/asynq"
)

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Enqueuer is the subset of asynq.Client used by publishers.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Client struct {
	enqueuer Enqueuer
	closer   func() error
}

func NewClient(opt asynq.RedisClientOpt) *Client {
	c := asynq.NewClient(opt)
	return &Client{enqueuer: c, closer: c.Close}
}

// NewClientWith wraps an arbitrary Enqueuer.
func NewClientWith(e Enqueuer) *Client {
	return &Client{enqueuer: e, closer: func() error { return nil }}
}

func (c *Client) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	info, err := c.enqueuer.EnqueueContext(ctx, task, opts...)
	if err != nil {
		logger.Error("Queue:Enqueue:Error", "type", task.Type(), "error", err)
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	logger.Info("Queue:Enqueue:Success", "type", task.Type(), "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.closer()
}

type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewServer(opt asynq.RedisClientOpt, concurrency int) *Server {
	if concurrency <= 0 {
		concurrency = constants.DefaultQueueConcurrency
	}
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{constants.QueueDefault: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Process:Error", "type", task.Type(), "error", err)
		}),
	})
	return &Server{srv: srv, mux: asynq.NewServeMux()}
}

func (s *Server) Handle(taskType string, handler asynq.Handler) {
	s.mux.Handle(taskType, handler)
}

// Start runs the worker pool in the background.
func (s *Server) Start() error {
	if err := s.srv.Start(s.mux); err != nil {
		return fmt.Errorf("start queue server: %w", err)
	}
	logger.Info("Queue server started")
	return nil
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
	logger.Info("Queue server stopped")
}
