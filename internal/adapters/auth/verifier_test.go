package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/collabhub/internal/domain"
)

var secret = []byte("test-secret")

func alice() domain.User {
	return domain.User{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"}
}

func TestVerify_RoundTrip(t *testing.T) {
	token, err := Sign(alice(), time.Hour, secret)
	require.NoError(t, err)

	got, err := NewVerifier(secret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, alice(), got)
}

func TestVerify_Expired(t *testing.T) {
	token, err := Sign(alice(), -time.Minute, secret)
	require.NoError(t, err)

	_, err = NewVerifier(secret).Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := Sign(alice(), time.Hour, secret)
	require.NoError(t, err)

	_, err = NewVerifier([]byte("other-secret")).Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	token, err := Sign(alice(), time.Hour, secret)
	require.NoError(t, err)

	enc, sig, _ := strings.Cut(token, ".")
	tampered := enc[:len(enc)-2] + "xx." + sig

	_, err = NewVerifier(secret).Verify(tampered)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_Malformed(t *testing.T) {
	v := NewVerifier(secret)
	for _, token := range []string{"", "no-dot", "a.b.c"} {
		_, err := v.Verify(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestSign_RejectsInvalidIdentity(t *testing.T) {
	_, err := Sign(domain.User{ID: "u1"}, time.Hour, secret)
	assert.ErrorIs(t, err, domain.ErrDisplayNameEmpty)
}
