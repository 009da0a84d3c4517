package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"clinic-booking/core/constants"
	"clinic-booking/core/errors"
	"clinic-booking/core/logger"
	"clinic-booking/core/utils"
	"clinic-booking/modules/booking/entity"
	"clinic-booking/modules/booking/repository"

	"github.com/google/uuid"
)

type ReservationEngineInterface interface {
	Reserve(ctx context.Context, requesterID, slotID string) (*entity.Booking, *errors.AppError)
}

// Publisher announces bookings after they are committed.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, booking *entity.Booking) error
}

type noopPublisher struct{}

func (noopPublisher) PublishBookingConfirmed(context.Context, *entity.Booking) error { return nil }

type ReservationEngine struct {
	store     repository.ReservationStore
	publisher Publisher
	timeout   time.Duration
}

func NewReservationEngine(store repository.ReservationStore, publisher Publisher, timeout time.Duration) *ReservationEngine {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if timeout <= 0 {
		timeout = constants.DefaultReservationTimeout
	}
	return &ReservationEngine{store: store, publisher: publisher, timeout: timeout}
}

// Reserve books slotID for requesterID. At most one call per slot ever
// succeeds; concurrent callers queue on the slot's row lock and then observe
// it booked. Failures after the lock leave the slot and bookings untouched.
// Only TRANSACTION_FAILED is worth retrying.
func (e *ReservationEngine) Reserve(ctx context.Context, requesterID, slotID string) (*entity.Booking, *errors.AppError) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Requester ID is required", nil)
	}
	if len(requesterID) > constants.MaxRequesterIDLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Requester ID is too long", nil)
	}
	id, err := utils.ToUUID(slotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid slot ID", err)
	}

	txCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	booking, appErr := e.reserve(txCtx, requesterID, id)
	if appErr != nil {
		logger.Info("ReservationEngine:Reserve:Failed",
			"slot_id", id,
			"requester_id", requesterID,
			"code", appErr.Code,
			"elapsed", time.Since(start),
		)
		return nil, appErr
	}

	logger.Info("ReservationEngine:Reserve:Confirmed",
		"booking_id", booking.ID,
		"slot_id", id,
		"requester_id", requesterID,
		"elapsed", time.Since(start),
	)

	// The booking is durable at this point; a lost event must not undo it.
	if err := e.publisher.PublishBookingConfirmed(context.WithoutCancel(ctx), booking); err != nil {
		logger.Error("ReservationEngine:Reserve:Publish", "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

func (e *ReservationEngine) reserve(ctx context.Context, requesterID string, slotID uuid.UUID) (*entity.Booking, *errors.AppError) {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		logger.Error("ReservationEngine:Reserve:BeginTx", "slot_id", slotID, "error", err)
		return nil, transactionFailed(err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Warn("ReservationEngine:Reserve:Rollback", "slot_id", slotID, "error", rbErr)
		}
	}()

	slot, err := tx.LockSlotForUpdate(ctx, slotID)
	if err != nil {
		logger.Warn("ReservationEngine:Reserve:Lock", "slot_id", slotID, "error", err)
		return nil, transactionFailed(err)
	}
	if slot == nil {
		return nil, errors.NewAppError(errors.ErrSlotNotFound, "Slot not found", nil)
	}
	if slot.IsBooked {
		return nil, errors.NewAppError(errors.ErrSlotAlreadyBooked, "Slot is already booked", nil)
	}

	if err := tx.MarkSlotBooked(ctx, slotID); err != nil {
		logger.Error("ReservationEngine:Reserve:MarkSlotBooked", "slot_id", slotID, "error", err)
		return nil, transactionFailed(err)
	}

	booking, err := tx.InsertBooking(ctx, &entity.Booking{
		UserID: requesterID,
		SlotID: slotID,
		Status: entity.StatusConfirmed,
	})
	if err != nil {
		logger.Error("ReservationEngine:Reserve:InsertBooking", "slot_id", slotID, "error", err)
		return nil, transactionFailed(err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("ReservationEngine:Reserve:Commit", "slot_id", slotID, "error", err)
		return nil, transactionFailed(err)
	}
	committed = true

	return booking, nil
}

func transactionFailed(err error) *errors.AppError {
	return errors.NewAppError(errors.ErrTransactionFailed, "Reservation could not be completed, please retry", err)
}
