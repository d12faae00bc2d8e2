package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	hasher := NewPasswordHasher()

	encoded, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := hasher.Verify("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_WrongPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	encoded, err := hasher.Hash("password-one")
	require.NoError(t, err)

	ok, err := hasher.Verify("password-two", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	hasher := NewPasswordHasher()

	tests := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$not-base64!$aGFzaA",
	}

	for _, encoded := range tests {
		_, err := hasher.Verify("whatever", encoded)
		assert.Error(t, err, "encoded=%q", encoded)
	}
}
