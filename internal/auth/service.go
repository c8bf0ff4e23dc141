package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
)

// ErrInvalidCredentials covers both unknown identifier and wrong password,
// so a caller cannot probe which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountStore is the slice of the account repository the auth service needs.
type AccountStore interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*account.Doctor, error)
	GetDoctorByEmail(ctx context.Context, email string) (*account.Doctor, error)
	GetDoctorByCPF(ctx context.Context, cpf string) (*account.Doctor, error)
	UpdateDoctor(ctx context.Context, d *account.Doctor) error

	GetPatientByID(ctx context.Context, id uuid.UUID) (*account.Patient, error)
	GetPatientByEmail(ctx context.Context, email string) (*account.Patient, error)
	GetPatientByCPF(ctx context.Context, cpf string) (*account.Patient, error)
	UpdatePatient(ctx context.Context, p *account.Patient) error
}

type Service struct {
	store    AccountStore
	resets   ResetStore
	secret   []byte
	tokenTTL time.Duration
	resetTTL time.Duration
}

func NewService(store AccountStore, resets ResetStore, secret string, tokenTTL, resetTTL time.Duration) *Service {
	return &Service{
		store:    store,
		resets:   resets,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		resetTTL: resetTTL,
	}
}

// Session is the result of a successful login. Exactly one of Doctor or
// Patient is set, matching Role.
type Session struct {
	Token   string
	Role    Role
	Doctor  *account.Doctor
	Patient *account.Patient
}

// Login resolves the identifier against doctors first, then patients; an
// identifier shared by both tables resolves to whichever account the
// password fits, doctors taking precedence. An identifier containing "@" is
// treated as an email, anything else as a CPF with formatting characters
// stripped.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	byEmail := strings.Contains(identifier, "@")
	cpf := account.NormalizeCPF(identifier)

	var (
		doctor *account.Doctor
		err    error
	)
	if byEmail {
		doctor, err = s.store.GetDoctorByEmail(ctx, identifier)
	} else {
		doctor, err = s.store.GetDoctorByCPF(ctx, cpf)
	}
	if err != nil && !errors.Is(err, account.ErrDoctorNotFound) {
		return nil, fmt.Errorf("lookup doctor: %w", err)
	}

	// A doctor match only wins when the password matches. On a mismatch the
	// same identifier may still belong to a patient account, so fall through
	// instead of failing here.
	if doctor != nil && passwordMatches(doctor.PasswordHash, password) {
		identity := Identity{ID: doctor.ID, Email: doctor.Email, Role: RoleDoctor}
		token, err := signToken(s.secret, identity, s.tokenTTL)
		if err != nil {
			return nil, err
		}
		return &Session{Token: token, Role: RoleDoctor, Doctor: doctor}, nil
	}

	var patient *account.Patient
	if byEmail {
		patient, err = s.store.GetPatientByEmail(ctx, identifier)
	} else {
		patient, err = s.store.GetPatientByCPF(ctx, cpf)
	}
	if err != nil {
		if errors.Is(err, account.ErrPatientNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup patient: %w", err)
	}

	if !passwordMatches(patient.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	identity := Identity{ID: patient.ID, Email: patient.Email, Role: RolePatient}
	token, err := signToken(s.secret, identity, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Role: RolePatient, Patient: patient}, nil
}

func passwordMatches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
