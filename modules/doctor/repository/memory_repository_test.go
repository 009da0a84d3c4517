package repository

import (
	"context"
	"testing"
	"time"

	"clinic-booking/core/database/memdb"
	"clinic-booking/modules/doctor/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ CatalogRepositoryInterface = (*MemoryCatalog)(nil)
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

func TestMemoryCatalogDoctors(t *testing.T) {
	repo := NewMemoryCatalog(memdb.New())
	ctx := context.Background()

	chen, err := repo.CreateDoctor(ctx, &entity.Doctor{Name: "Dr. Michael Chen", Slug: "dr-michael-chen"})
	require.NoError(t, err)
	smith, err := repo.CreateDoctor(ctx, &entity.Doctor{Name: "Dr. Sarah Smith", Slug: "dr-sarah-smith"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, chen.ID)

	_, err = repo.CreateDoctor(ctx, &entity.Doctor{Name: "Dr. Sarah Smith", Slug: "dr-sarah-smith"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	got, err := repo.GetDoctorBySlug(ctx, "dr-sarah-smith")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, smith.ID, got.ID)

	missing, err := repo.GetDoctorByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	doctors, err := repo.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Dr. Michael Chen", doctors[0].Name)
	assert.Equal(t, "Dr. Sarah Smith", doctors[1].Name)
}

func TestMemoryCatalogSlotsOrderedByTime(t *testing.T) {
	repo := NewMemoryCatalog(memdb.New())
	ctx := context.Background()

	doc, err := repo.CreateDoctor(ctx, &entity.Doctor{Name: "Dr. Time", Slug: "dr-time"})
	require.NoError(t, err)

	base := time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		_, err := repo.CreateSlot(ctx, &entity.Slot{DoctorID: doc.ID, StartTime: base.Add(offset)})
		require.NoError(t, err)
	}

	slots, err := repo.ListSlotsByDoctorID(ctx, doc.ID, false)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.True(t, slots[0].StartTime.Equal(base))
	assert.True(t, slots[1].StartTime.Equal(base.Add(time.Hour)))
	assert.True(t, slots[2].StartTime.Equal(base.Add(2*time.Hour)))
	for _, s := range slots {
		assert.False(t, s.IsBooked)
	}

	all, err := repo.ListSlotsByDoctorIDs(ctx, []uuid.UUID{doc.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.CreateSlot(ctx, &entity.Slot{DoctorID: uuid.New(), StartTime: base})
	assert.ErrorIs(t, err, memdb.ErrRowNotFound)
}
