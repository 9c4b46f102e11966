package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, CompareHashAndPassword(hash, "secret1"))
	assert.False(t, CompareHashAndPassword(hash, "secret2"))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("secret1")
	assert.NoError(t, err)
	h2, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
