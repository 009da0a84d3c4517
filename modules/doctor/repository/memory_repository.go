package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"clinic-booking/core/database/memdb"
	"clinic-booking/modules/doctor/entity"

	"github.com/google/uuid"
)

// MemoryCatalog keeps doctors and slots in a memdb.DB. The booking module
// locks rows of Slots through the same DB.
type MemoryCatalog struct {
	DB      *memdb.DB
	Doctors *memdb.Table[entity.Doctor]
	Slots   *memdb.Table[entity.Slot]
}

func NewMemoryCatalog(db *memdb.DB) *MemoryCatalog {
	return &MemoryCatalog{
		DB: db,
		Doctors: memdb.NewTable[entity.Doctor](db, "doctors").
			Unique("slug", func(d entity.Doctor) string { return d.Slug }),
		Slots: memdb.NewTable[entity.Slot](db, "slots"),
	}
}

func (m *MemoryCatalog) CreateDoctor(ctx context.Context, doctor *entity.Doctor) (*entity.Doctor, error) {
	now := time.Now().UTC()
	created := *doctor
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	err := m.DB.Exec(ctx, func(tx *memdb.Tx) error {
		return m.Doctors.Insert(tx, created.ID.String(), created)
	})
	if err != nil {
		if errors.Is(err, memdb.ErrDuplicateKey) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}
	return &created, nil
}

func (m *MemoryCatalog) GetDoctorByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	d, ok := m.Doctors.Get(id.String())
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryCatalog) GetDoctorBySlug(ctx context.Context, slug string) (*entity.Doctor, error) {
	d, ok := m.Doctors.FindUnique("slug", slug)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryCatalog) ListDoctors(ctx context.Context) ([]entity.Doctor, error) {
	doctors := m.Doctors.Select(nil)
	sort.SliceStable(doctors, func(i, j int) bool {
		return strings.Compare(doctors[i].Name, doctors[j].Name) < 0
	})
	return doctors, nil
}

func (m *MemoryCatalog) CreateSlot(ctx context.Context, slot *entity.Slot) (*entity.Slot, error) {
	if _, ok := m.Doctors.Get(slot.DoctorID.String()); !ok {
		return nil, memdb.ErrRowNotFound
	}

	now := time.Now().UTC()
	created := entity.Slot{
		DoctorID:  slot.DoctorID,
		StartTime: slot.StartTime.UTC(),
		IsBooked:  false,
	}
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	err := m.DB.Exec(ctx, func(tx *memdb.Tx) error {
		return m.Slots.Insert(tx, created.ID.String(), created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (m *MemoryCatalog) GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	s, ok := m.Slots.Get(id.String())
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryCatalog) ListSlotsByDoctorID(ctx context.Context, doctorID uuid.UUID, onlyAvailable bool) ([]entity.Slot, error) {
	slots := m.Slots.Select(func(s entity.Slot) bool {
		return s.DoctorID == doctorID && (!onlyAvailable || !s.IsBooked)
	})
	sortByTime(slots)
	return slots, nil
}

func (m *MemoryCatalog) ListSlotsByDoctorIDs(ctx context.Context, doctorIDs []uuid.UUID) ([]entity.Slot, error) {
	wanted := make(map[uuid.UUID]struct{}, len(doctorIDs))
	for _, id := range doctorIDs {
		wanted[id] = struct{}{}
	}
	slots := m.Slots.Select(func(s entity.Slot) bool {
		_, ok := wanted[s.DoctorID]
		return ok
	})
	sortByTime(slots)
	return slots, nil
}

func sortByTime(slots []entity.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
}
