package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_GenerateSalt(t *testing.T) {
	h := NewBcryptHasher(10)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)

		raw, err := base64.RawStdEncoding.DecodeString(salt)
		require.NoError(t, err, "salt should be base64")
		assert.Len(t, raw, saltBytes)
		assert.False(t, seen[salt], "salts should not repeat")
		seen[salt] = true
	}
}

func TestBcryptHasher_roundTrip(t *testing.T) {
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
	}{
		{name: "short password", password: "pw"},
		{name: "typical password", password: "correct horse battery staple"},
		{name: "longer than bcrypt's 72-byte limit", password: string(make([]byte, 100))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(salt, tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			assert.NoError(t, h.Compare(hash, salt, tt.password))
		})
	}
}

func TestBcryptHasher_Compare_rejectsMismatches(t *testing.T) {
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	otherSalt, err := h.GenerateSalt()
	require.NoError(t, err)

	hash, err := h.Hash(salt, "password")
	require.NoError(t, err)

	assert.Error(t, h.Compare(hash, salt, "other password"))
	assert.Error(t, h.Compare(hash, otherSalt, "password"))
}

func TestNewBcryptHasher_clampsInvalidCost(t *testing.T) {
	// An out-of-range cost must not make hashing fail at runtime.
	h := NewBcryptHasher(99)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	hash, err := h.Hash(salt, "password")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, salt, "password"))
}
