package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clinic-booking/core/database"
	"clinic-booking/core/logger"
	"clinic-booking/modules/booking/entity"
	docentity "clinic-booking/modules/doctor/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqLockNotAvailable = "55P03"
	pqQueryCanceled    = "57014"
	pqUniqueViolation  = "23505"
)

// PostgresReservationStore runs reservations in READ COMMITTED transactions and
// locks slots with SELECT ... FOR UPDATE.
type PostgresReservationStore struct {
	DB          database.IDatabase
	LockTimeout time.Duration
}

func NewPostgresReservationStore(db database.IDatabase, lockTimeout time.Duration) *PostgresReservationStore {
	return &PostgresReservationStore{DB: db, LockTimeout: lockTimeout}
}

func (s *PostgresReservationStore) BeginTx(ctx context.Context) (ReservationTx, error) {
	tx, err := s.DB.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		logger.Error("PostgresReservationStore:BeginTx", "error", err)
		return nil, err
	}

	if s.LockTimeout > 0 {
		// SET does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.LockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			logger.Error("PostgresReservationStore:BeginTx:LockTimeout", "error", err)
			return nil, err
		}
	}

	return &postgresTx{tx: tx}, nil
}

func (s *PostgresReservationStore) ListBookingsBySlot(ctx context.Context, slotID uuid.UUID) ([]entity.Booking, error) {
	query := `
		SELECT id, user_id, slot_id, status, created_at
		FROM bookings
		WHERE slot_id = $1
		ORDER BY created_at ASC
	`

	bookings := []entity.Booking{}
	if err := s.DB.SelectContext(ctx, &bookings, query, slotID); err != nil {
		logger.Error("PostgresReservationStore:ListBookingsBySlot", "error", err)
		return nil, err
	}
	return bookings, nil
}

type postgresTx struct {
	tx *sqlx.Tx
}

func (t *postgresTx) LockSlotForUpdate(ctx context.Context, slotID uuid.UUID) (*docentity.Slot, error) {
	query := `
		SELECT id, doctor_id, start_time, is_booked, created_at, updated_at
		FROM slots
		WHERE id = $1
		FOR UPDATE
	`

	var slot docentity.Slot
	if err := t.tx.GetContext(ctx, &slot, query, slotID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, classify("LockSlotForUpdate", err)
	}
	return &slot, nil
}

func (t *postgresTx) MarkSlotBooked(ctx context.Context, slotID uuid.UUID) error {
	query := `UPDATE slots SET is_booked = TRUE, updated_at = NOW() WHERE id = $1`

	res, err := t.tx.ExecContext(ctx, query, slotID)
	if err != nil {
		return classify("MarkSlotBooked", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("MarkSlotBooked", err)
	}
	if n != 1 {
		return fmt.Errorf("mark slot %s booked: %d rows affected", slotID, n)
	}
	return nil
}

func (t *postgresTx) InsertBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	query := `
		INSERT INTO bookings (user_id, slot_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, slot_id, status, created_at
	`

	var created entity.Booking
	if err := t.tx.GetContext(ctx, &created, query, booking.UserID, booking.SlotID, booking.Status); err != nil {
		return nil, classify("InsertBooking", err)
	}
	return &created, nil
}

func (t *postgresTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return classify("Commit", err)
	}
	return nil
}

func (t *postgresTx) Rollback() error {
	return t.tx.Rollback()
}

// classify tags lock and uniqueness failures so callers can tell them apart
// from connection errors.
func classify(step string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqLockNotAvailable, pqQueryCanceled:
			logger.Warn("PostgresReservationStore:"+step+":LockTimeout", "code", string(pqErr.Code), "error", err)
			return fmt.Errorf("%w: %v", ErrLockTimeout, err)
		case pqUniqueViolation:
			logger.Warn("PostgresReservationStore:"+step+":UniqueViolation", "constraint", pqErr.Constraint, "error", err)
			return fmt.Errorf("%w: %v", ErrDuplicateBooking, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrLockTimeout, err)
	}
	logger.Error("PostgresReservationStore:"+step, "error", err)
	return err
}
