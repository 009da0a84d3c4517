package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"clinic-booking/core/errors"
	"clinic-booking/core/logger"
	"clinic-booking/modules/booking/entity"
	"clinic-booking/modules/booking/repository"
	docentity "clinic-booking/modules/doctor/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	beginErr error
	tx       *mockTx
}

func (m *mockStore) BeginTx(ctx context.Context) (repository.ReservationTx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

type mockTx struct {
	lockFn   func() (*docentity.Slot, error)
	markErr  error
	insertFn func(b *entity.Booking) (*entity.Booking, error)
	commitFn func() error

	marked     bool
	inserted   bool
	commits    int
	rollbacks  int
	doneByCall bool
}

func (m *mockTx) LockSlotForUpdate(ctx context.Context, slotID uuid.UUID) (*docentity.Slot, error) {
	return m.lockFn()
}

func (m *mockTx) MarkSlotBooked(ctx context.Context, slotID uuid.UUID) error {
	m.marked = true
	return m.markErr
}

func (m *mockTx) InsertBooking(ctx context.Context, b *entity.Booking) (*entity.Booking, error) {
	m.inserted = true
	if m.insertFn != nil {
		return m.insertFn(b)
	}
	created := *b
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	return &created, nil
}

func (m *mockTx) Commit() error {
	m.commits++
	m.doneByCall = true
	if m.commitFn != nil {
		return m.commitFn()
	}
	return nil
}

func (m *mockTx) Rollback() error {
	m.rollbacks++
	if m.doneByCall {
		return sql.ErrTxDone
	}
	m.doneByCall = true
	return nil
}

func availableSlot() (*docentity.Slot, error) {
	return &docentity.Slot{IsBooked: false}, nil
}

func TestReserveProtocolPaths(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	boom := errors.New("boom")

	tests := []struct {
		name          string
		tx            *mockTx
		wantCode      errors.ErrorCode
		wantMarked    bool
		wantInserted  bool
		wantCommits   int
		wantRollbacks int
	}{
		{
			name:          "lock fails",
			tx:            &mockTx{lockFn: func() (*docentity.Slot, error) { return nil, boom }},
			wantCode:      errors.ErrTransactionFailed,
			wantRollbacks: 1,
		},
		{
			name:          "slot missing",
			tx:            &mockTx{lockFn: func() (*docentity.Slot, error) { return nil, nil }},
			wantCode:      errors.ErrSlotNotFound,
			wantRollbacks: 1,
		},
		{
			name:          "slot booked",
			tx:            &mockTx{lockFn: func() (*docentity.Slot, error) { return &docentity.Slot{IsBooked: true}, nil }},
			wantCode:      errors.ErrSlotAlreadyBooked,
			wantRollbacks: 1,
		},
		{
			name:          "mark fails",
			tx:            &mockTx{lockFn: availableSlot, markErr: boom},
			wantCode:      errors.ErrTransactionFailed,
			wantMarked:    true,
			wantRollbacks: 1,
		},
		{
			name: "insert fails",
			tx: &mockTx{lockFn: availableSlot, insertFn: func(*entity.Booking) (*entity.Booking, error) {
				return nil, repository.ErrDuplicateBooking
			}},
			wantCode:      errors.ErrTransactionFailed,
			wantMarked:    true,
			wantInserted:  true,
			wantRollbacks: 1,
		},
		{
			name:          "commit fails",
			tx:            &mockTx{lockFn: availableSlot, commitFn: func() error { return boom }},
			wantCode:      errors.ErrTransactionFailed,
			wantMarked:    true,
			wantInserted:  true,
			wantCommits:   1,
			wantRollbacks: 1,
		},
		{
			name:         "confirmed",
			tx:           &mockTx{lockFn: availableSlot},
			wantMarked:   true,
			wantInserted: true,
			wantCommits:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewReservationEngine(&mockStore{tx: tt.tx}, nil, time.Second)

			booking, appErr := engine.Reserve(context.Background(), "user-1", uuid.NewString())
			if tt.wantCode == "" {
				require.Nil(t, appErr)
				assert.Equal(t, entity.StatusConfirmed, booking.Status)
				assert.Equal(t, "user-1", booking.UserID)
			} else {
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
				assert.Nil(t, booking)
			}

			assert.Equal(t, tt.wantMarked, tt.tx.marked)
			assert.Equal(t, tt.wantInserted, tt.tx.inserted)
			assert.Equal(t, tt.wantCommits, tt.tx.commits)
			assert.Equal(t, tt.wantRollbacks, tt.tx.rollbacks)
		})
	}
}

func TestReserveBeginFailure(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	engine := NewReservationEngine(&mockStore{beginErr: errors.New("pool exhausted")}, nil, time.Second)

	_, appErr := engine.Reserve(context.Background(), "user-1", uuid.NewString())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrTransactionFailed, appErr.Code)
	assert.True(t, appErr.Retryable())
}
