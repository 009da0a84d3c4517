package entity

import (
	"time"

	"clinic-booking/core/entity"

	"github.com/google/uuid"
)

// Doctor is immutable once created.
type Doctor struct {
	Name      string  `db:"name" json:"name"`
	Slug      string  `db:"slug" json:"slug"`
	Specialty *string `db:"specialty" json:"specialty,omitempty"`
	entity.BaseEntity
}

// Slot is a bookable point in time of one doctor. IsBooked starts false and is
// flipped exactly once, by the reservation protocol.
type Slot struct {
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	IsBooked  bool      `db:"is_booked" json:"is_booked"`
	entity.BaseEntity
}
