package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-booking/core/database/memdb"
	"clinic-booking/modules/booking/entity"
	docentity "clinic-booking/modules/doctor/entity"
	docrepo "clinic-booking/modules/doctor/repository"

	"github.com/google/uuid"
)

// MemoryReservationStore runs reservations against the in-memory catalog. It
// shares the catalog's memdb.DB so slot locks and booking inserts commit
// together.
type MemoryReservationStore struct {
	catalog  *docrepo.MemoryCatalog
	Bookings *memdb.Table[entity.Booking]
}

func NewMemoryReservationStore(catalog *docrepo.MemoryCatalog) *MemoryReservationStore {
	return &MemoryReservationStore{
		catalog: catalog,
		Bookings: memdb.NewTable[entity.Booking](catalog.DB, "bookings").
			Unique("slot_id", func(b entity.Booking) string { return b.SlotID.String() }),
	}
}

func (s *MemoryReservationStore) BeginTx(ctx context.Context) (ReservationTx, error) {
	tx, err := s.catalog.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &memoryTx{store: s, tx: tx}, nil
}

func (s *MemoryReservationStore) ListBookingsBySlot(ctx context.Context, slotID uuid.UUID) ([]entity.Booking, error) {
	return s.Bookings.Select(func(b entity.Booking) bool { return b.SlotID == slotID }), nil
}

type memoryTx struct {
	store *MemoryReservationStore
	tx    *memdb.Tx
}

func (t *memoryTx) LockSlotForUpdate(ctx context.Context, slotID uuid.UUID) (*docentity.Slot, error) {
	slot, found, err := t.store.catalog.Slots.LockForUpdate(ctx, t.tx, slotID.String())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrLockTimeout, err)
		}
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &slot, nil
}

func (t *memoryTx) MarkSlotBooked(ctx context.Context, slotID uuid.UUID) error {
	now := time.Now().UTC()
	return t.store.catalog.Slots.Update(t.tx, slotID.String(), func(s *docentity.Slot) {
		s.IsBooked = true
		s.UpdatedAt = now
	})
}

func (t *memoryTx) InsertBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	created := *booking
	created.ID = uuid.New()
	created.CreatedAt = time.Now().UTC()

	if err := t.store.Bookings.Insert(t.tx, created.ID.String(), created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (t *memoryTx) Commit() error {
	err := t.tx.Commit()
	if errors.Is(err, memdb.ErrDuplicateKey) {
		return fmt.Errorf("%w: %v", ErrDuplicateBooking, err)
	}
	return err
}

func (t *memoryTx) Rollback() error {
	return t.tx.Rollback()
}
