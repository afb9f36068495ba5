package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSignAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	tok, exp, err := iss.Sign("abc123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	sid, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc123", sid)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	tok, _, err := NewIssuer("one", time.Hour).Sign("abc")
	require.NoError(t, err)

	_, err = NewIssuer("two", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	tok, _, err := iss.Sign("abc")
	require.NoError(t, err)

	iss.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("secret", 0).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerOrCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerOrCookie(r, "rps_token"))

	r.AddCookie(&http.Cookie{Name: "rps_token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", BearerOrCookie(r, "rps_token"))

	r.Header.Set("Authorization", "Bearer  from-header ")
	assert.Equal(t, "from-header", BearerOrCookie(r, "rps_token"))
}

func TestPasswords(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPassword(string(h), "hunter22"))
	assert.False(t, CheckPassword(string(h), "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))

	full, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(full, "pw"))
}
