package repository

import (
	"context"
	"database/sql"
	"errors"

	"clinic-booking/core/database"
	"clinic-booking/core/logger"
	"clinic-booking/modules/doctor/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrDuplicateSlug = errors.New("doctor slug already exists")

const pqUniqueViolation = "23505"

// CatalogRepositoryInterface is the storage contract of the catalog. Lookups
// return nil, nil when the row does not exist. Slot lists are ordered by time.
type CatalogRepositoryInterface interface {
	CreateDoctor(ctx context.Context, doctor *entity.Doctor) (*entity.Doctor, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	GetDoctorBySlug(ctx context.Context, slug string) (*entity.Doctor, error)
	ListDoctors(ctx context.Context) ([]entity.Doctor, error)

	CreateSlot(ctx context.Context, slot *entity.Slot) (*entity.Slot, error)
	GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	ListSlotsByDoctorID(ctx context.Context, doctorID uuid.UUID, onlyAvailable bool) ([]entity.Slot, error)
	ListSlotsByDoctorIDs(ctx context.Context, doctorIDs []uuid.UUID) ([]entity.Slot, error)
}

// CatalogRepository is the postgres implementation.
type CatalogRepository struct {
	DB database.IDatabase
}

func NewCatalogRepository(db database.IDatabase) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// ===================== Doctors =====================

func (r *CatalogRepository) CreateDoctor(ctx context.Context, doctor *entity.Doctor) (*entity.Doctor, error) {
	query := `
		INSERT INTO doctors (name, slug, specialty)
		VALUES ($1, $2, $3)
		RETURNING id, name, slug, specialty, created_at, updated_at
	`

	var created entity.Doctor
	err := r.DB.GetContext(ctx, &created, query, doctor.Name, doctor.Slug, doctor.Specialty)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateSlug
		}
		logger.Error("CatalogRepository:CreateDoctor", "error", err)
		return nil, err
	}

	return &created, nil
}

func (r *CatalogRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	query := `SELECT id, name, slug, specialty, created_at, updated_at FROM doctors WHERE id = $1`

	var doctor entity.Doctor
	err := r.DB.GetContext(ctx, &doctor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CatalogRepository:GetDoctorByID", "error", err)
		return nil, err
	}

	return &doctor, nil
}

func (r *CatalogRepository) GetDoctorBySlug(ctx context.Context, slug string) (*entity.Doctor, error) {
	query := `SELECT id, name, slug, specialty, created_at, updated_at FROM doctors WHERE slug = $1`

	var doctor entity.Doctor
	err := r.DB.GetContext(ctx, &doctor, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CatalogRepository:GetDoctorBySlug", "error", err)
		return nil, err
	}

	return &doctor, nil
}

func (r *CatalogRepository) ListDoctors(ctx context.Context) ([]entity.Doctor, error) {
	query := `
		SELECT id, name, slug, specialty, created_at, updated_at
		FROM doctors
		ORDER BY name ASC, created_at ASC
	`

	doctors := []entity.Doctor{}
	if err := r.DB.SelectContext(ctx, &doctors, query); err != nil {
		logger.Error("CatalogRepository:ListDoctors", "error", err)
		return nil, err
	}

	return doctors, nil
}

// ===================== Slots =====================

func (r *CatalogRepository) CreateSlot(ctx context.Context, slot *entity.Slot) (*entity.Slot, error) {
	query := `
		INSERT INTO slots (doctor_id, start_time, is_booked)
		VALUES ($1, $2, FALSE)
		RETURNING id, doctor_id, start_time, is_booked, created_at, updated_at
	`

	var created entity.Slot
	if err := r.DB.GetContext(ctx, &created, query, slot.DoctorID, slot.StartTime.UTC()); err != nil {
		logger.Error("CatalogRepository:CreateSlot", "error", err)
		return nil, err
	}

	return &created, nil
}

func (r *CatalogRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	query := `SELECT id, doctor_id, start_time, is_booked, created_at, updated_at FROM slots WHERE id = $1`

	var slot entity.Slot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CatalogRepository:GetSlotByID", "error", err)
		return nil, err
	}

	return &slot, nil
}

func (r *CatalogRepository) ListSlotsByDoctorID(ctx context.Context, doctorID uuid.UUID, onlyAvailable bool) ([]entity.Slot, error) {
	query := `
		SELECT id, doctor_id, start_time, is_booked, created_at, updated_at
		FROM slots
		WHERE doctor_id = $1 AND (NOT $2 OR is_booked = FALSE)
		ORDER BY start_time ASC
	`

	slots := []entity.Slot{}
	if err := r.DB.SelectContext(ctx, &slots, query, doctorID, onlyAvailable); err != nil {
		logger.Error("CatalogRepository:ListSlotsByDoctorID", "error", err)
		return nil, err
	}

	return slots, nil
}

func (r *CatalogRepository) ListSlotsByDoctorIDs(ctx context.Context, doctorIDs []uuid.UUID) ([]entity.Slot, error) {
	slots := []entity.Slot{}
	if len(doctorIDs) == 0 {
		return slots, nil
	}

	ids := make([]string, 0, len(doctorIDs))
	for _, id := range doctorIDs {
		ids = append(ids, id.String())
	}

	query := `
		SELECT id, doctor_id, start_time, is_booked, created_at, updated_at
		FROM slots
		WHERE doctor_id = ANY($1::uuid[])
		ORDER BY start_time ASC
	`

	if err := r.DB.SelectContext(ctx, &slots, query, pq.Array(ids)); err != nil {
		logger.Error("CatalogRepository:ListSlotsByDoctorIDs", "error", err)
		return nil, err
	}

	return slots, nil
}
