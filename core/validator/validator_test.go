package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reservation struct {
	UserID string `json:"userId" validate:"required,max=8"`
	SlotID string `json:"slotId" validate:"required,uuid"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(reservation{UserID: "user-1", SlotID: "7c9e6679-7425-40de-944b-e07fc1f90ae7"}))

	err := v.Validate(reservation{UserID: "", SlotID: "nope"})
	require.Error(t, err)

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, FieldError{Field: "userId", Message: "is required"}, fields[0])
	assert.Equal(t, FieldError{Field: "slotId", Message: "must be a valid uuid"}, fields[1])

	err = v.Validate(reservation{UserID: "much-too-long", SlotID: "7c9e6679-7425-40de-944b-e07fc1f90ae7"})
	fields, _ = FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "must be at most 8 characters", fields[0].Message)
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	_, ok := FieldErrors(assert.AnError)
	assert.False(t, ok)
}
