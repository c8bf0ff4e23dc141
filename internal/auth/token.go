package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

var (
	// ErrNoToken means the caller supplied no credentials at all. It is
	// reported before any parsing or signature work happens.
	ErrNoToken      = errors.New("no credentials supplied")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrForbidden    = errors.New("role not allowed")
)

// Identity is the resolved subject of a verified token.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func signToken(secret []byte, identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: identity.Email,
		Role:  string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature and expiry. Expiry is reported distinctly so
// callers can prompt re-login instead of treating the token as forged.
func (s *Service) VerifyToken(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrNoToken
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Identity{}, ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}

	role := Role(claims.Role)
	if role != RoleDoctor && role != RolePatient {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{ID: id, Email: claims.Email, Role: role}, nil
}

// RequireRole gates cross-role access after a token has been verified.
func RequireRole(identity Identity, required Role) error {
	if identity.Role != required {
		return ErrForbidden
	}
	return nil
}
