package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-signup-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the free-form payload carried by a token. The codec adds and
// enforces the registered expiry; everything else is up to the caller.
type Claims = jwt.MapClaims

// Codec signs and verifies HS256 JWTs for one token class. Each class
// (activation, access, refresh) gets its own Codec with its own secret,
// so a leaked secret can only forge tokens of its own class.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the lifetime stamped on tokens issued by this codec.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue serializes the claims plus an expiry and signs them.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := time.Now()
	out := Claims{
		"exp": jwt.NewNumericDate(now.Add(c.ttl)),
		"iat": jwt.NewNumericDate(now),
	}
	for k, v := range claims {
		out[k] = v
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, out)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims. Claims are
// never returned from a token that fails either check.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("verify token: %w", domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", domain.ErrTokenInvalid)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("verify token: %w", domain.ErrTokenInvalid)
	}
	return claims, nil
}
