package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, h.Verify("s3cret-pass", hash))
	assert.False(t, h.Verify("wrong-pass", hash))
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "plain", "$2a$10$short"} {
		assert.False(t, h.Verify("anything", hash), "hash %q", hash)
	}
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", DefaultBcryptCost, 10},
		{"explicit", 12, 12},
		{"too low", 0, DefaultBcryptCost},
		{"too high", 99, DefaultBcryptCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBcryptHasher(tt.in).cost)
		})
	}
}

func TestBcryptHasher_StoredCost(t *testing.T) {
	t.Parallel()

	hash, err := NewBcryptHasher(DefaultBcryptCost).Hash("password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("я", 50) // 100 bytes

	hash, err := h.Hash(long)
	require.NoError(t, err)

	assert.True(t, h.Verify(long, hash))
	assert.False(t, h.Verify(strings.Repeat("я", 35), hash))
	// only the first 72 bytes count
	assert.True(t, h.Verify(strings.Repeat("я", 36)+"tail", hash))
}
