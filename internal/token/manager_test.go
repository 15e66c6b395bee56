package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(Config{Secret: []byte("short"), TTL: time.Hour})
	assert.Error(t, err)

	_, err = NewManager(Config{Secret: []byte(testSecret)})
	assert.Error(t, err)
}

func TestManager_IssueAndParse(t *testing.T) {
	m, err := NewManager(Config{Secret: []byte(testSecret), TTL: time.Hour})
	require.NoError(t, err)

	raw, err := m.Issue("user:1", "ada@example.com")
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user:1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "passauth", claims.Issuer)
}

func TestManager_Expired(t *testing.T) {
	m, err := NewManager(Config{Secret: []byte(testSecret), TTL: time.Minute})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return past }
	raw, err := m.Issue("user:1", "ada@example.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestManager_WrongSecret(t *testing.T) {
	a, err := NewManager(Config{Secret: []byte(testSecret), TTL: time.Hour})
	require.NoError(t, err)
	b, err := NewManager(Config{Secret: []byte("another-secret-of-enough-length"), TTL: time.Hour})
	require.NoError(t, err)

	raw, err := a.Issue("user:1", "ada@example.com")
	require.NoError(t, err)

	_, err = b.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = a.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}
