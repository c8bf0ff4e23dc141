package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
)

var _ AccountStore = (*fakeStore)(nil)

type fakeStore struct {
	doctors  map[uuid.UUID]*account.Doctor
	patients map[uuid.UUID]*account.Patient
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		doctors:  make(map[uuid.UUID]*account.Doctor),
		patients: make(map[uuid.UUID]*account.Patient),
	}
}

func (f *fakeStore) GetDoctorByID(_ context.Context, id uuid.UUID) (*account.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, account.ErrDoctorNotFound
}

func (f *fakeStore) GetDoctorByEmail(_ context.Context, email string) (*account.Doctor, error) {
	for _, d := range f.doctors {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, account.ErrDoctorNotFound
}

func (f *fakeStore) GetDoctorByCPF(_ context.Context, cpf string) (*account.Doctor, error) {
	for _, d := range f.doctors {
		if d.CPF == cpf {
			cp := *d
			return &cp, nil
		}
	}
	return nil, account.ErrDoctorNotFound
}

func (f *fakeStore) UpdateDoctor(_ context.Context, d *account.Doctor) error {
	if _, ok := f.doctors[d.ID]; !ok {
		return account.ErrDoctorNotFound
	}
	cp := *d
	f.doctors[d.ID] = &cp
	return nil
}

func (f *fakeStore) GetPatientByID(_ context.Context, id uuid.UUID) (*account.Patient, error) {
	if p, ok := f.patients[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, account.ErrPatientNotFound
}

func (f *fakeStore) GetPatientByEmail(_ context.Context, email string) (*account.Patient, error) {
	for _, p := range f.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, account.ErrPatientNotFound
}

func (f *fakeStore) GetPatientByCPF(_ context.Context, cpf string) (*account.Patient, error) {
	for _, p := range f.patients {
		if p.CPF == cpf {
			cp := *p
			return &cp, nil
		}
	}
	return nil, account.ErrPatientNotFound
}

func (f *fakeStore) UpdatePatient(_ context.Context, p *account.Patient) error {
	if _, ok := f.patients[p.ID]; !ok {
		return account.ErrPatientNotFound
	}
	cp := *p
	f.patients[p.ID] = &cp
	return nil
}

type fakeResetStore struct {
	tokens map[string]string
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{tokens: make(map[string]string)}
}

func (f *fakeResetStore) Save(_ context.Context, tokenHash, subject string, _ time.Duration) error {
	f.tokens[tokenHash] = subject
	return nil
}

func (f *fakeResetStore) Consume(_ context.Context, tokenHash string) (string, error) {
	subject, ok := f.tokens[tokenHash]
	if !ok {
		return "", ErrResetTokenInvalid
	}
	delete(f.tokens, tokenHash)
	return subject, nil
}

// Helpers

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	return NewService(store, newFakeResetStore(), "test-secret", time.Hour, time.Minute)
}

func seedDoctor(t *testing.T, store *fakeStore, email, cpf, password string) *account.Doctor {
	t.Helper()
	d := &account.Doctor{
		ID:           uuid.New(),
		Name:         "Dr. Ana Souza",
		Email:        email,
		CRM:          "123",
		Specialty:    "Cardiology",
		PasswordHash: mustHash(t, password),
		CPF:          cpf,
	}
	store.doctors[d.ID] = d
	return d
}

func seedPatient(t *testing.T, store *fakeStore, email, cpf, password string) *account.Patient {
	t.Helper()
	p := &account.Patient{
		ID:           uuid.New(),
		Name:         "João Lima",
		Email:        email,
		PasswordHash: mustHash(t, password),
		CPF:          cpf,
	}
	store.patients[p.ID] = p
	return p
}

func TestLogin_DoctorByEmail(t *testing.T) {
	store := newFakeStore()
	doctor := seedDoctor(t, store, "d@x.com", "11111111111", "secret-password")
	svc := newTestService(t, store)

	session, err := svc.Login(context.Background(), "d@x.com", "secret-password")
	require.NoError(t, err)

	assert.Equal(t, RoleDoctor, session.Role)
	require.NotNil(t, session.Doctor)
	assert.Equal(t, doctor.ID, session.Doctor.ID)
	assert.Nil(t, session.Patient)
	assert.NotEmpty(t, session.Token)
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	store := newFakeStore()
	patient := seedPatient(t, store, "p@x.com", "22222222222", "secret-password")
	svc := newTestService(t, store)

	session, err := svc.Login(context.Background(), "p@x.com", "secret-password")
	require.NoError(t, err)

	identity, err := svc.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, identity.ID)
	assert.Equal(t, "p@x.com", identity.Email)
	assert.Equal(t, RolePatient, identity.Role)
}

func TestLogin_CPFStripsFormatting(t *testing.T) {
	store := newFakeStore()
	seedDoctor(t, store, "d@x.com", "11111111111", "secret-password")
	svc := newTestService(t, store)

	session, err := svc.Login(context.Background(), "111.111.111-11", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, session.Role)

	// Pre-cleaned digits behave identically
	session, err = svc.Login(context.Background(), "11111111111", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, session.Role)
}

func TestLogin_SharedIdentifierResolvesByPassword(t *testing.T) {
	// The same email can exist once among doctors and once among patients.
	// The password decides which account the session is for; a doctor
	// mismatch must not lock the patient out.
	store := newFakeStore()
	doctor := seedDoctor(t, store, "shared@x.com", "11111111111", "doctor-password")
	patient := seedPatient(t, store, "shared@x.com", "22222222222", "patient-password")
	svc := newTestService(t, store)
	ctx := context.Background()

	session, err := svc.Login(ctx, "shared@x.com", "patient-password")
	require.NoError(t, err)
	assert.Equal(t, RolePatient, session.Role)
	require.NotNil(t, session.Patient)
	assert.Equal(t, patient.ID, session.Patient.ID)

	session, err = svc.Login(ctx, "shared@x.com", "doctor-password")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, session.Role)
	require.NotNil(t, session.Doctor)
	assert.Equal(t, doctor.ID, session.Doctor.ID)

	_, err = svc.Login(ctx, "shared@x.com", "neither-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_GenericFailure(t *testing.T) {
	store := newFakeStore()
	seedDoctor(t, store, "d@x.com", "11111111111", "secret-password")
	svc := newTestService(t, store)

	// Wrong password and unknown identifier are indistinguishable
	_, badPassword := svc.Login(context.Background(), "d@x.com", "wrong")
	_, unknownUser := svc.Login(context.Background(), "nobody@x.com", "secret-password")

	assert.ErrorIs(t, badPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, badPassword.Error(), unknownUser.Error())
}

func TestVerifyToken_Expired(t *testing.T) {
	store := newFakeStore()
	seedDoctor(t, store, "d@x.com", "11111111111", "secret-password")
	// Negative TTL issues an already-expired token
	svc := NewService(store, newFakeResetStore(), "test-secret", -time.Minute, time.Minute)

	session, err := svc.Login(context.Background(), "d@x.com", "secret-password")
	require.NoError(t, err)

	_, err = svc.VerifyToken(session.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyToken_InvalidAndMissing(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.VerifyToken("")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	store := newFakeStore()
	seedDoctor(t, store, "d@x.com", "11111111111", "secret-password")
	issuer := NewService(store, newFakeResetStore(), "secret-a", time.Hour, time.Minute)
	verifier := NewService(store, newFakeResetStore(), "secret-b", time.Hour, time.Minute)

	session, err := issuer.Login(context.Background(), "d@x.com", "secret-password")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(session.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRequireRole(t *testing.T) {
	identity := Identity{ID: uuid.New(), Email: "p@x.com", Role: RolePatient}

	assert.NoError(t, RequireRole(identity, RolePatient))
	assert.ErrorIs(t, RequireRole(identity, RoleDoctor), ErrForbidden)
}

func TestPasswordReset_Flow(t *testing.T) {
	store := newFakeStore()
	patient := seedPatient(t, store, "p@x.com", "22222222222", "old-password")
	resets := newFakeResetStore()
	svc := NewService(store, resets, "test-secret", time.Hour, time.Minute)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "p@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password"))

	// Old password no longer works, new one does
	_, err = svc.Login(ctx, "p@x.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	session, err := svc.Login(ctx, "p@x.com", "new-password")
	require.NoError(t, err)
	assert.Equal(t, patient.ID, session.Patient.ID)
}

func TestPasswordReset_SingleUse(t *testing.T) {
	store := newFakeStore()
	seedPatient(t, store, "p@x.com", "22222222222", "old-password")
	svc := NewService(store, newFakeResetStore(), "test-secret", time.Hour, time.Minute)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, "p@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password"))
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "another-password"), ErrResetTokenInvalid)
}

func TestPasswordReset_UnknownEmailIssuesNothing(t *testing.T) {
	resets := newFakeResetStore()
	svc := NewService(newFakeStore(), resets, "test-secret", time.Hour, time.Minute)

	token, err := svc.RequestPasswordReset(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, resets.tokens)
}
