// Package auth implements the bearer-token verifier used at connection
// admission. Tokens are HMAC-SHA256 signed JSON claims, base64url encoded as
// <payload>.<signature>. Sign is exposed so operators and tests can mint
// tokens with the shared secret.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/appforge/collabhub/internal/domain"
)

var (
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("bad token signature")
	ErrExpired      = errors.New("token expired")
)

type claims struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	ExpiresAt   int64  `json:"exp"`
}

// Sign mints a token for the given identity, valid for ttl.
func Sign(user domain.User, ttl time.Duration, secret []byte) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}
	payload, err := json.Marshal(claims{
		UserID:      string(user.ID),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		ExpiresAt:   time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		return "", err
	}
	enc := base64.RawURLEncoding.EncodeToString(payload)
	return enc + "." + sign(enc, secret), nil
}

// Verifier checks token signatures and expiry against a shared secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret, now: time.Now}
}

func (v *Verifier) Verify(token string) (domain.User, error) {
	enc, sig, ok := strings.Cut(token, ".")
	if !ok {
		return domain.User{}, ErrMalformed
	}
	if !hmac.Equal([]byte(sign(enc, v.secret)), []byte(sig)) {
		return domain.User{}, ErrBadSignature
	}
	payload, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return domain.User{}, ErrMalformed
	}
	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return domain.User{}, ErrMalformed
	}
	if c.ExpiresAt < v.now().Unix() {
		return domain.User{}, ErrExpired
	}
	user := domain.User{
		ID:          domain.UserID(c.UserID),
		Email:       c.Email,
		DisplayName: c.DisplayName,
	}
	if err := user.Validate(); err != nil {
		return domain.User{}, ErrMalformed
	}
	return user, nil
}

func sign(enc string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(enc))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
