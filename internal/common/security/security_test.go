package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	ts, err := NewTokenService([]byte("test-signing-secret"), WithClock(clock.Now))
	require.NoError(t, err)
	return ts
}

func TestIssueAndValidate(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(t, clock)

	token, err := ts.Issue("user-1", "a@x.com", "customer")
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, clock.t.Add(TokenTTL), claims.ExpiresAt.Time.UTC())
}

func TestTokenExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	ts := newTestTokenService(t, clock)

	token, err := ts.Issue("user-1", "", "admin")
	require.NoError(t, err)

	clock.t = issuedAt.Add(time.Second)
	_, err = ts.Validate(token)
	assert.NoError(t, err)

	clock.t = issuedAt.Add(TokenTTL - time.Second)
	_, err = ts.Validate(token)
	assert.NoError(t, err)

	clock.t = issuedAt.Add(TokenTTL + time.Second)
	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTamperedTokenIsMalformed(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	ts := newTestTokenService(t, clock)

	token, err := ts.Issue("user-1", "a@x.com", "customer")
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := ts.Validate(tampered)
		require.ErrorIs(t, err, ErrTokenMalformed, "position %d", i)
	}
}

func TestValidateRejectsGarbageAndForeignSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	ts := newTestTokenService(t, clock)

	for _, raw := range []string{"", "abc", "a.b.c", strings.Repeat("x", 64)} {
		_, err := ts.Validate(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, raw)
	}

	other, err := NewTokenService([]byte("another-secret"), WithClock(clock.Now))
	require.NoError(t, err)
	token, err := other.Issue("user-1", "", "admin")
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewTokenServiceNeedsSecret(t *testing.T) {
	_, err := NewTokenService(nil)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123456", hash)
	assert.NotContains(t, hash, "pw123456")
	assert.True(t, CheckPasswordHash("pw123456", hash))
	assert.False(t, CheckPasswordHash("pw1234567", hash))
	assert.False(t, CheckPasswordHash("", hash))

	again, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}
