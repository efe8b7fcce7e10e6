package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/memberdir/apiserver/types"
)

// DefaultTTL bounds token lifetime when no override is configured.
const DefaultTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification:
// malformed, expired, tampered, or signed with the wrong method.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Username     string `json:"username"`
	AccessRights int    `json:"access_rights"`
	jwt.RegisteredClaims
}

// Issuer creates and verifies the identity tokens returned at login.
// Tokens are stateless; the signed claims are the only session state.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs an Issuer with the process-wide signing secret.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token binding the username and access tier until expiry.
func (i *Issuer) Issue(identity types.Identity) (string, error) {
	now := time.Now()
	c := claims{
		Username:     identity.Username,
		AccessRights: identity.AccessRights,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(i.secret)
}

// Verify decodes and validates a token, failing closed on any defect.
func (i *Issuer) Verify(tokenString string) (types.Identity, error) {
	c := claims{}
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return types.Identity{}, ErrInvalidToken
	}
	if strings.TrimSpace(c.Username) == "" {
		return types.Identity{}, ErrInvalidToken
	}
	return types.Identity{Username: c.Username, AccessRights: c.AccessRights}, nil
}
