package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

// StatusConfirmed is the only status the reservation protocol produces.
const StatusConfirmed BookingStatus = "CONFIRMED"

// Booking is append-only: it is created by a successful reservation and never
// mutated afterwards.
type Booking struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	UserID    string        `db:"user_id" json:"user_id"`
	SlotID    uuid.UUID     `db:"slot_id" json:"slot_id"`
	Status    BookingStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
