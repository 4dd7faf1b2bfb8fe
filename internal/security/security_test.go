package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	s := NewJWTSigner("test-secret", time.Hour)

	token, err := s.Sign(42, "alice", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	id, err := SubjectAsUserID(claims)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestJWTWrongSecret(t *testing.T) {
	s := NewJWTSigner("secret-a", time.Hour)
	other := NewJWTSigner("secret-b", time.Hour)

	token, err := s.Sign(1, "bob", time.Now())
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	s := NewJWTSigner("secret", time.Minute)

	token, err := s.Sign(1, "bob", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = s.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "hunter22"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
