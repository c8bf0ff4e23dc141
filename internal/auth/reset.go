package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
)

var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// ResetStore holds outstanding password-reset tokens. Only the SHA-256 of a
// token is stored; the plain token lives exclusively in the email sent to
// the account holder.
type ResetStore interface {
	Save(ctx context.Context, tokenHash, subject string, ttl time.Duration) error
	// Consume returns the subject for the hash and deletes it, so a token
	// can be used at most once.
	Consume(ctx context.Context, tokenHash string) (string, error)
}

type redisResetStore struct {
	client *redis.Client
}

func NewRedisResetStore(client *redis.Client) ResetStore {
	return &redisResetStore{client: client}
}

func resetKey(tokenHash string) string {
	return "pwreset:" + tokenHash
}

func (r *redisResetStore) Save(ctx context.Context, tokenHash, subject string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetKey(tokenHash), subject, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

func (r *redisResetStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	subject, err := r.client.GetDel(ctx, resetKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetTokenInvalid
		}
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return subject, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RequestPasswordReset issues a single-use reset token for the account with
// the given email. An unknown email returns an empty token and no error, so
// the HTTP layer can answer identically either way and not leak which
// addresses have accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	subject := ""

	doctor, err := s.store.GetDoctorByEmail(ctx, email)
	switch {
	case err == nil:
		subject = string(RoleDoctor) + ":" + doctor.ID.String()
	case errors.Is(err, account.ErrDoctorNotFound):
		patient, perr := s.store.GetPatientByEmail(ctx, email)
		switch {
		case perr == nil:
			subject = string(RolePatient) + ":" + patient.ID.String()
		case errors.Is(perr, account.ErrPatientNotFound):
			return "", nil
		default:
			return "", fmt.Errorf("lookup patient: %w", perr)
		}
	default:
		return "", fmt.Errorf("lookup doctor: %w", err)
	}

	token := uuid.NewString()
	if err := s.resets.Save(ctx, hashResetToken(token), subject, s.resetTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and stores a fresh hash of the new
// password for the account the token was issued to.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}

	subject, err := s.resets.Consume(ctx, hashResetToken(token))
	if err != nil {
		return err
	}

	role, idStr, ok := strings.Cut(subject, ":")
	if !ok {
		return ErrResetTokenInvalid
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	switch Role(role) {
	case RoleDoctor:
		doctor, err := s.store.GetDoctorByID(ctx, id)
		if err != nil {
			return err
		}
		doctor.PasswordHash = string(hash)
		return s.store.UpdateDoctor(ctx, doctor)
	case RolePatient:
		patient, err := s.store.GetPatientByID(ctx, id)
		if err != nil {
			return err
		}
		patient.PasswordHash = string(hash)
		return s.store.UpdatePatient(ctx, patient)
	default:
		return ErrResetTokenInvalid
	}
}
