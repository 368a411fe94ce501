package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier проверяет HS256 токены с общим секретом.
// Используется локально и в тестах вместо внешнего провайдера.
type HMACVerifier struct {
	secret []byte
	issuer string
}

func NewHMACVerifier(secret []byte, issuer string) *HMACVerifier {
	return &HMACVerifier{secret: secret, issuer: issuer}
}

func (v *HMACVerifier) Verify(_ context.Context, raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(raw, &tc, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return tc.toClaims()
}

// Issue подписывает токен для указанных claims
func (v *HMACVerifier) Issue(c Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	tc := tokenClaims{
		Email:         c.Email,
		Name:          c.Name,
		EmailVerified: c.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(v.secret)
}
