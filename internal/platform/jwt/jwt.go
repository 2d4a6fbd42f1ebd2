// Package jwt validates the HS256 bearer tokens issued by the marketplace
// identity service. The subject claim is the profile owner id.
package jwt

import (
	"errors"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "rentwise/pkg/domain-errors"
)

// Claims are the access token claims the profile service relies on.
type Claims struct {
	gojwt.RegisteredClaims
}

// OwnerID is the authenticated owner carried in the subject claim.
func (c *Claims) OwnerID() string { return c.Subject }

type Validator struct {
	signingKey []byte
	issuer     string
}

// NewValidator builds a validator. An empty issuer accepts any issuer.
func NewValidator(signingKey, issuer string) *Validator {
	return &Validator{signingKey: []byte(signingKey), issuer: issuer}
}

// Issue signs a token for ownerID. It backs local tooling and tests.
func (v *Validator) Issue(ownerID string, now time.Time, expiresIn time.Duration) (string, error) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   ownerID,
			Issuer:    v.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(expiresIn)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(v.signingKey)
}

func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(v.issuer))
	}

	parsed, err := gojwt.ParseWithClaims(tokenString, &Claims{}, func(*gojwt.Token) (any, error) {
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, dErrors.Wrap(err, dErrors.CodeAuthenticationRequired, "token has expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeAuthenticationRequired, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeAuthenticationRequired, "invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, dErrors.New(dErrors.CodeAuthenticationRequired, "token has no subject")
	}
	return claims, nil
}
