package dto

import (
	"strings"
	"time"
)

// Failure reasons returned to clients.
const (
	ReasonInvalidRequest    = "InvalidRequest"
	ReasonSlotNotFound      = "SlotNotFound"
	ReasonSlotAlreadyBooked = "SlotAlreadyBooked"
	ReasonTransactionFailed = "TransactionFailed"
	ReasonInternalError     = "InternalError"
)

const (
	StatusConfirmed = "CONFIRMED"
	StatusFailed    = "FAILED"
)

// ReservationRequest accepts the requester as userId or requesterId.
type ReservationRequest struct {
	UserID      string `json:"userId" validate:"required_without=RequesterID,max=128"`
	RequesterID string `json:"requesterId" validate:"omitempty,max=128"`
	SlotID      string `json:"slotId" validate:"required,uuid"`
}

func (r *ReservationRequest) Requester() string {
	if id := strings.TrimSpace(r.UserID); id != "" {
		return id
	}
	return strings.TrimSpace(r.RequesterID)
}

type BookingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SlotID    string    `json:"slot_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ConfirmedResponse struct {
	Status  string          `json:"status"`
	Booking BookingResponse `json:"booking"`
}

type FailedResponse struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
}
