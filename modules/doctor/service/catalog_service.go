package service

import (
	"context"
	"strings"
	"time"

	"clinic-booking/core/cache"
	"clinic-booking/core/constants"
	"clinic-booking/core/errors"
	"clinic-booking/core/logger"
	"clinic-booking/core/utils"
	"clinic-booking/modules/doctor/dto"
	"clinic-booking/modules/doctor/entity"
	"clinic-booking/modules/doctor/mapper"
	"clinic-booking/modules/doctor/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugAttempts = 3

type CatalogServiceInterface interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, *errors.AppError)
	ListDoctors(ctx context.Context) ([]dto.DoctorResponse, *errors.AppError)
	CreateSlot(ctx context.Context, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	ListSlots(ctx context.Context, doctorRef string, onlyAvailable bool) ([]dto.SlotResponse, *errors.AppError)
	InvalidateCatalog(ctx context.Context) error
}

type CatalogService struct {
	repo     repository.CatalogRepositoryInterface
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewCatalogService(repo repository.CatalogRepositoryInterface, c cache.Cache, cacheTTL time.Duration) *CatalogService {
	if c == nil {
		c = cache.NewNoopCache()
	}
	if cacheTTL <= 0 {
		cacheTTL = constants.DefaultCatalogCacheTTL
	}
	return &CatalogService{repo: repo, cache: c, cacheTTL: cacheTTL}
}

// CreateDoctor registers a doctor. The slug comes from the display name; a
// collision gets a short random suffix.
func (s *CatalogService) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, *errors.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Doctor name is required", nil)
	}

	var specialty *string
	if req.Specialty != nil {
		if trimmed := strings.TrimSpace(*req.Specialty); trimmed != "" {
			specialty = &trimmed
		}
	}

	base := slug.Make(name)
	if base == "" {
		base = "doctor"
	}

	doctor := &entity.Doctor{Name: name, Slug: base, Specialty: specialty}
	var created *entity.Doctor
	var err error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		created, err = s.repo.CreateDoctor(ctx, doctor)
		if err != repository.ErrDuplicateSlug {
			break
		}
		doctor.Slug = base + "-" + strings.ToLower(utils.GenerateIDOfLength(5))
	}
	if err != nil {
		logger.Error("CatalogService:CreateDoctor:Error", "error", err, "name", name)
		if err == repository.ErrDuplicateSlug {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Could not allocate a unique doctor slug", err)
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create doctor", err)
	}

	s.invalidate(ctx)
	logger.Info("CatalogService:CreateDoctor:Success", "doctor_id", created.ID, "slug", created.Slug)

	resp := mapper.ToDoctorResponse(created, nil)
	return &resp, nil
}

// ListDoctors returns every doctor ordered by name, each with its slots in time order.
func (s *CatalogService) ListDoctors(ctx context.Context) ([]dto.DoctorResponse, *errors.AppError) {
	var cached []dto.DoctorResponse
	found, err := s.cache.Get(ctx, constants.RedisKeyCatalogDoctors, &cached)
	if err != nil {
		logger.Warn("CatalogService:ListDoctors:CacheGet", "error", err)
	} else if found {
		return cached, nil
	}

	doctors, err := s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list doctors", err)
	}

	ids := make([]uuid.UUID, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.ID)
	}
	slots, err := s.repo.ListSlotsByDoctorIDs(ctx, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list slots", err)
	}

	byDoctor := make(map[uuid.UUID][]entity.Slot, len(doctors))
	for _, slot := range slots {
		byDoctor[slot.DoctorID] = append(byDoctor[slot.DoctorID], slot)
	}

	result := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		result = append(result, mapper.ToDoctorResponse(&doctors[i], byDoctor[doctors[i].ID]))
	}

	if err := s.cache.Set(ctx, constants.RedisKeyCatalogDoctors, result, s.cacheTTL); err != nil {
		logger.Warn("CatalogService:ListDoctors:CacheSet", "error", err)
	}
	return result, nil
}

// CreateSlot publishes an available slot for an existing doctor.
func (s *CatalogService) CreateSlot(ctx context.Context, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	doctorID, err := utils.ToUUID(req.DoctorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid doctor ID", err)
	}
	if req.Time.IsZero() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Slot time is required", nil)
	}

	doctor, err := s.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get doctor", err)
	}
	if doctor == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Doctor not found", nil)
	}

	created, err := s.repo.CreateSlot(ctx, &entity.Slot{DoctorID: doctorID, StartTime: req.Time})
	if err != nil {
		logger.Error("CatalogService:CreateSlot:Error", "error", err, "doctor_id", doctorID)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create slot", err)
	}

	s.invalidate(ctx)
	logger.Info("CatalogService:CreateSlot:Success", "slot_id", created.ID, "doctor_id", doctorID, "time", created.StartTime)

	resp := mapper.ToSlotResponse(created)
	return &resp, nil
}

// ListSlots lists a doctor's slots by time ascending. doctorRef is the doctor's
// id or slug.
func (s *CatalogService) ListSlots(ctx context.Context, doctorRef string, onlyAvailable bool) ([]dto.SlotResponse, *errors.AppError) {
	doctor, appErr := s.resolveDoctor(ctx, doctorRef)
	if appErr != nil {
		return nil, appErr
	}

	slots, err := s.repo.ListSlotsByDoctorID(ctx, doctor.ID, onlyAvailable)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list slots", err)
	}
	return mapper.ToSlotResponses(slots), nil
}

// InvalidateCatalog drops the cached doctor listing.
func (s *CatalogService) InvalidateCatalog(ctx context.Context) error {
	return s.cache.Delete(ctx, constants.RedisKeyCatalogDoctors)
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.InvalidateCatalog(ctx); err != nil {
		logger.Warn("CatalogService:InvalidateCatalog", "error", err)
	}
}

func (s *CatalogService) resolveDoctor(ctx context.Context, ref string) (*entity.Doctor, *errors.AppError) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Doctor reference is required", nil)
	}

	var doctor *entity.Doctor
	var err error
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		doctor, err = s.repo.GetDoctorByID(ctx, id)
	} else {
		doctor, err = s.repo.GetDoctorBySlug(ctx, ref)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get doctor", err)
	}
	if doctor == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Doctor not found", nil)
	}
	return doctor, nil
}
