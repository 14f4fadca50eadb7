// Package auth issues and verifies bearer credentials and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the credential lifetime used when none is configured.
const DefaultTTL = time.Hour

// Claims is the signed payload: sub carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"username"`
}

// Authority signs and verifies credentials with one HMAC key.
type Authority struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewAuthority(key []byte, ttl time.Duration) *Authority {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authority{key: key, ttl: ttl, now: time.Now}
}

// TTL returns the lifetime given to newly issued credentials.
func (a *Authority) TTL() time.Duration { return a.ttl }

func (a *Authority) Issue(user *models.User) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		UserName: user.UserName,
	})

	tokenString, err := token.SignedString(a.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. It returns
// common.ErrTokenExpired for a well-signed but expired credential and
// common.ErrInvalidToken for anything else.
func (a *Authority) Verify(tokenString string) (*models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &models.Identity{
		UserID:    claims.Subject,
		UserName:  claims.UserName,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
