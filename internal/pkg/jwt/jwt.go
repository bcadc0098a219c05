package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// DecodeError reports a persisted credential that cannot be used,
// either because it is malformed or because it has expired
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode credential: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Claims represents the claims the backend encodes into an access token
type Claims struct {
	NameID     string `json:"nameid"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	UniqueName string `json:"unique_name"`
	jwt.RegisteredClaims
}

// Decode reads the claims of a credential without verifying its signature.
// The signing key belongs to the backend; the client only needs the claims
// and the expiry. A token whose exp is missing or not after now is expired.
func Decode(tokenString string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %v", ErrTokenInvalid, err)}
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(now) {
		return nil, &DecodeError{Err: ErrTokenExpired}
	}

	return claims, nil
}

// ExpiresAt returns the expiry of a credential, or the zero time when the
// credential cannot be decoded
func ExpiresAt(tokenString string) time.Time {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// GenerateAccessToken signs a token in the backend's claim layout.
// Used by local tooling and tests that stand in for the backend.
func GenerateAccessToken(userID, email, role, userName, secret string, expiresAt time.Time) (string, error) {
	claims := Claims{
		NameID:     userID,
		Email:      email,
		Role:       role,
		UniqueName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
