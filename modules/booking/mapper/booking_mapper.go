package mapper

import (
	"clinic-booking/core/errors"
	"clinic-booking/modules/booking/dto"
	"clinic-booking/modules/booking/entity"
)

func ToBookingResponse(b *entity.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID,
		SlotID:    b.SlotID.String(),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func ToConfirmedResponse(b *entity.Booking) dto.ConfirmedResponse {
	return dto.ConfirmedResponse{
		Status:  dto.StatusConfirmed,
		Booking: ToBookingResponse(b),
	}
}

// ReasonFor names the reservation outcome of an error code.
func ReasonFor(code errors.ErrorCode) string {
	switch code {
	case errors.ErrInvalidInput, errors.ErrInvalidRequestData:
		return dto.ReasonInvalidRequest
	case errors.ErrSlotNotFound:
		return dto.ReasonSlotNotFound
	case errors.ErrSlotAlreadyBooked:
		return dto.ReasonSlotAlreadyBooked
	case errors.ErrTransactionFailed:
		return dto.ReasonTransactionFailed
	default:
		return dto.ReasonInternalError
	}
}

func ToFailedResponse(appErr *errors.AppError) dto.FailedResponse {
	reason := ReasonFor(appErr.Code)
	msg := appErr.Message
	if reason == dto.ReasonInternalError {
		msg = "internal server error"
	}
	return dto.FailedResponse{
		Status:    dto.StatusFailed,
		Reason:    reason,
		Message:   msg,
		Retryable: appErr.Retryable(),
	}
}
