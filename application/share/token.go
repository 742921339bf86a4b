package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLinkTTL is how long a share link stays valid.
const DefaultLinkTTL = 72 * time.Hour

var (
	// ErrInvalidToken is returned when a share token fails verification
	// or has expired.
	ErrInvalidToken = errors.New("invalid or expired share token")

	// ErrNoSecret is returned when the signing secret is unset.
	ErrNoSecret = errors.New("share secret is not configured")
)

// Tokens issues and verifies the signed tokens embedded in guest review
// links. A token grants comment access to exactly one video until it
// expires.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokensOption is a functional option for configuring Tokens.
type TokensOption func(*Tokens)

// WithTTL overrides the link lifetime.
func WithTTL(ttl time.Duration) TokensOption {
	return func(t *Tokens) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithTokenClock sets a custom time source (for testing).
func WithTokenClock(now func() time.Time) TokensOption {
	return func(t *Tokens) {
		t.now = now
	}
}

// NewTokens creates a token issuer/verifier with the given HMAC secret.
func NewTokens(secret string, opts ...TokensOption) (*Tokens, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	t := &Tokens{
		secret: []byte(secret),
		ttl:    DefaultLinkTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

type shareClaims struct {
	VideoID string `json:"vid"`
	jwt.RegisteredClaims
}

// Issue signs a share token for one video.
func (t *Tokens) Issue(videoID string) (string, error) {
	now := t.now()
	claims := shareClaims{
		VideoID: videoID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, nil
}

// Verify checks a share token and returns the video id it grants access to.
func (t *Tokens) Verify(tokenString string) (string, error) {
	var claims shareClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid || claims.VideoID == "" {
		return "", ErrInvalidToken
	}
	return claims.VideoID, nil
}
