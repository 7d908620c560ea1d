package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/roamstay/marketplace/pkg/kvstore"
)

const TypeRefresh = "refresh"

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

type Claims struct {
	TokenType string `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens. Validity is cryptographic plus
// expiry, except for the denylist: a JTI added there fails Parse with
// ErrTokenRevoked until its natural expiry.
type Codec struct {
	Secret   []byte
	Denylist kvstore.Denylist
}

func (c *Codec) Issue(subject string, ttl time.Duration, tokenType string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (c *Codec) Parse(ctx context.Context, tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}

	if c.Denylist != nil && claims.ID != "" {
		revoked, err := c.Denylist.Has(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("denylist check: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return &claims, nil
}

// Invalidate denylists the token's JTI for the remainder of its natural
// expiry. A token that no longer parses, already expired, or was already
// denylisted is a silent no-op: logout stays idempotent.
func (c *Codec) Invalidate(ctx context.Context, tokenStr string) {
	if c.Denylist == nil {
		return
	}

	claims, err := c.Parse(ctx, tokenStr)
	if err != nil {
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < time.Minute {
		ttl = time.Minute
	}
	_ = c.Denylist.Add(ctx, claims.ID, ttl)
}
