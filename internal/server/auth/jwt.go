// Package auth issues and verifies role-scoped bearer tokens, hashes
// passwords and carries the authenticated principal through a request context.
package auth

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered claims plus the principal kind
// the token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	Kind models.Kind `json:"kind"`
}

// Codec signs tokens with one HS256 secret per principal kind. A token signed
// for one kind never verifies as the other.
type Codec struct {
	secrets map[models.Kind][]byte
	ttl     time.Duration
	now     func() time.Time
}

// NewCodec requires a non-empty secret for both kinds, and the secrets must
// differ. ttl <= 0 issues tokens without an expiry claim.
func NewCodec(secrets map[models.Kind][]byte, ttl time.Duration) (*Codec, error) {
	user, admin := secrets[models.KindUser], secrets[models.KindAdmin]
	if len(user) == 0 || len(admin) == 0 {
		return nil, errors.New("token secrets for both user and admin are required")
	}
	if bytes.Equal(user, admin) {
		return nil, errors.New("user and admin token secrets must differ")
	}

	return &Codec{
		secrets: map[models.Kind][]byte{
			models.KindUser:  bytes.Clone(user),
			models.KindAdmin: bytes.Clone(admin),
		},
		ttl: ttl,
		now: time.Now,
	}, nil
}

// Issue returns a signed token naming principalID as subject.
func (c *Codec) Issue(principalID string, kind models.Kind) (string, error) {
	secret, ok := c.secrets[kind]
	if !ok {
		return "", fmt.Errorf("unknown principal kind %q", kind)
	}

	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  principalID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Kind: kind,
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks token against the secret of expected only and returns the
// principal id. Every failure is reported as common.ErrInvalidToken.
func (c *Codec) Verify(token string, expected models.Kind) (string, error) {
	secret, ok := c.secrets[expected]
	if !ok || token == "" {
		return "", common.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Kind != expected || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
