package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.Len(t, a, 7)
	assert.NotEqual(t, a, b)
	assert.Len(t, GenerateIDOfLength(12), 12)
}

func TestToUUID(t *testing.T) {
	want := uuid.New()
	got, err := ToUUID("  " + want.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ToUUID("does-not-exist")
	assert.Error(t, err)
}
