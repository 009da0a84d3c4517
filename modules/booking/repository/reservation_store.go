package repository

import (
	"context"
	"errors"

	"clinic-booking/modules/booking/entity"
	docentity "clinic-booking/modules/doctor/entity"

	"github.com/google/uuid"
)

var (
	// ErrLockTimeout means the slot row lock could not be acquired in time.
	ErrLockTimeout = errors.New("slot lock not acquired in time")
	// ErrDuplicateBooking means the bookings.slot_id unique constraint fired.
	ErrDuplicateBooking = errors.New("booking already exists for slot")
)

// ReservationStore opens the transactions the reservation protocol runs in.
type ReservationStore interface {
	BeginTx(ctx context.Context) (ReservationTx, error)
}

// ReservationTx is one unit of work against the slot and booking rows.
//
// LockSlotForUpdate takes the exclusive row lock on the slot and returns its
// current state, or nil when the slot does not exist. It blocks while another
// transaction holds the lock and fails when ctx ends first. MarkSlotBooked and
// InsertBooking must run after the lock is held. Rollback after Commit returns
// sql.ErrTxDone.
type ReservationTx interface {
	LockSlotForUpdate(ctx context.Context, slotID uuid.UUID) (*docentity.Slot, error)
	MarkSlotBooked(ctx context.Context, slotID uuid.UUID) error
	InsertBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	Commit() error
	Rollback() error
}

// BookingReader answers read-only questions about committed bookings.
type BookingReader interface {
	ListBookingsBySlot(ctx context.Context, slotID uuid.UUID) ([]entity.Booking, error)
}
