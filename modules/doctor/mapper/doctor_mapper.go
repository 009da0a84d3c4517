package mapper

import (
	"clinic-booking/modules/doctor/dto"
	"clinic-booking/modules/doctor/entity"
)

func ToSlotResponse(s *entity.Slot) dto.SlotResponse {
	return dto.SlotResponse{
		ID:        s.ID,
		DoctorID:  s.DoctorID,
		Time:      s.StartTime,
		IsBooked:  s.IsBooked,
		CreatedAt: s.CreatedAt,
	}
}

func ToSlotResponses(slots []entity.Slot) []dto.SlotResponse {
	out := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, ToSlotResponse(&slots[i]))
	}
	return out
}

// ToDoctorResponse maps a doctor and its slots; slots must already be ordered.
func ToDoctorResponse(d *entity.Doctor, slots []entity.Slot) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:        d.ID,
		Name:      d.Name,
		Slug:      d.Slug,
		Specialty: d.Specialty,
		Slots:     ToSlotResponses(slots),
		CreatedAt: d.CreatedAt,
	}
}
