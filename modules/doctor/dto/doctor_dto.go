package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDoctorRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Specialty *string `json:"specialty,omitempty" validate:"omitempty,max=200"`
}

type CreateSlotRequest struct {
	DoctorID string    `json:"doctor_id" validate:"required,uuid"`
	Time     time.Time `json:"time" validate:"required"`
}

type DoctorResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Specialty *string        `json:"specialty,omitempty"`
	Slots     []SlotResponse `json:"slots"`
	CreatedAt time.Time      `json:"created_at"`
}

type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Time      time.Time `json:"time"`
	IsBooked  bool      `json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
}
