package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash([]byte("s3cret-pass"))
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", string(hash))

	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("s3cret-pass")))
	assert.ErrorIs(t, bcrypt.CompareHashAndPassword(hash, []byte("wrong")), bcrypt.ErrMismatchedHashAndPassword)
}

func TestBcryptHasherCost(t *testing.T) {
	hash, err := BcryptHasher{Cost: bcrypt.MinCost}.Hash([]byte("pw"))
	require.NoError(t, err)

	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasherSalts(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	a, err := h.Hash([]byte("same"))
	require.NoError(t, err)
	b, err := h.Hash([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, string(a), string(b))
}
