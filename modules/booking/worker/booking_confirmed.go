package worker

import (
	"context"
	"fmt"
	"time"

	"clinic-booking/core/constants"
	"clinic-booking/core/logger"
	"clinic-booking/core/queue"
	"clinic-booking/modules/booking/entity"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeBookingConfirmed = "booking:confirmed"

type BookingConfirmedPayload struct {
	BookingID   uuid.UUID `json:"booking_id"`
	SlotID      uuid.UUID `json:"slot_id"`
	UserID      string    `json:"user_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

func NewBookingConfirmedPayload(b *entity.Booking) BookingConfirmedPayload {
	return BookingConfirmedPayload{
		BookingID:   b.ID,
		SlotID:      b.SlotID,
		UserID:      b.UserID,
		ConfirmedAt: b.CreatedAt,
	}
}

func NewBookingConfirmedTask(b *entity.Booking) (*asynq.Task, error) {
	payload, err := json.Marshal(NewBookingConfirmedPayload(b))
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", TypeBookingConfirmed, err)
	}
	return asynq.NewTask(TypeBookingConfirmed, payload,
		asynq.Queue(constants.QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}

// CatalogInvalidator drops cached catalog views that embed slot availability.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

type BookingConfirmedHandler struct {
	catalog CatalogInvalidator
}

func NewBookingConfirmedHandler(catalog CatalogInvalidator) *BookingConfirmedHandler {
	return &BookingConfirmedHandler{catalog: catalog}
}

// ProcessTask implements asynq.Handler.
func (h *BookingConfirmedHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p BookingConfirmedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.Error("BookingConfirmedHandler:ProcessTask:Decode", "error", err)
		return fmt.Errorf("decode %s payload: %v: %w", TypeBookingConfirmed, err, asynq.SkipRetry)
	}
	return h.Handle(ctx, p)
}

func (h *BookingConfirmedHandler) Handle(ctx context.Context, p BookingConfirmedPayload) error {
	if err := h.catalog.InvalidateCatalog(ctx); err != nil {
		logger.Error("BookingConfirmedHandler:Handle:Invalidate", "booking_id", p.BookingID, "error", err)
		return err
	}
	logger.Info("BookingConfirmedHandler:Handle:Done", "booking_id", p.BookingID, "slot_id", p.SlotID)
	return nil
}

// AsynqPublisher enqueues booking:confirmed tasks for the worker pool.
type AsynqPublisher struct {
	client *queue.Client
}

func NewAsynqPublisher(client *queue.Client) *AsynqPublisher {
	return &AsynqPublisher{client: client}
}

func (p *AsynqPublisher) PublishBookingConfirmed(ctx context.Context, b *entity.Booking) error {
	task, err := NewBookingConfirmedTask(b)
	if err != nil {
		return err
	}
	return p.client.Enqueue(ctx, task)
}

// InlinePublisher runs the handler synchronously. Used when no queue is configured.
type InlinePublisher struct {
	handler *BookingConfirmedHandler
}

func NewInlinePublisher(handler *BookingConfirmedHandler) *InlinePublisher {
	return &InlinePublisher{handler: handler}
}

func (p *InlinePublisher) PublishBookingConfirmed(ctx context.Context, b *entity.Booking) error {
	return p.handler.Handle(ctx, NewBookingConfirmedPayload(b))
}
