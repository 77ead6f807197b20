package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, ComparePasswordAndHash("Abcdef1!", hash))
	assert.ErrorIs(t, ComparePasswordAndHash("wrong-pass1", hash), ErrMismatchedHashAndPassword)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrNoEmptyString)
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Abcdef1!", true},
		{"abcdefg1", true},
		{"short1", false},
		{"allletters", false},
		{"12345678", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, ValidatePasswordStrength(tt.password), tt.password)
	}
}
