package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
	"github.com/agendasaude/healthcare-scheduling/internal/auth"
)

// stubStore serves a single doctor account so tests can mint real tokens.
type stubStore struct {
	doctor account.Doctor
}

var _ auth.AccountStore = (*stubStore)(nil)

func newStubStore(t *testing.T) *stubStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)
	return &stubStore{doctor: account.Doctor{
		ID:           uuid.New(),
		Name:         "Dr. Ana Souza",
		Email:        "d@x.com",
		CRM:          "123",
		Specialty:    "Cardiology",
		PasswordHash: string(hash),
		CPF:          "11111111111",
	}}
}

func (s *stubStore) GetDoctorByID(_ context.Context, id uuid.UUID) (*account.Doctor, error) {
	if id == s.doctor.ID {
		cp := s.doctor
		return &cp, nil
	}
	return nil, account.ErrDoctorNotFound
}

func (s *stubStore) GetDoctorByEmail(_ context.Context, email string) (*account.Doctor, error) {
	if email == s.doctor.Email {
		cp := s.doctor
		return &cp, nil
	}
	return nil, account.ErrDoctorNotFound
}

func (s *stubStore) GetDoctorByCPF(_ context.Context, cpf string) (*account.Doctor, error) {
	if cpf == s.doctor.CPF {
		cp := s.doctor
		return &cp, nil
	}
	return nil, account.ErrDoctorNotFound
}

func (s *stubStore) UpdateDoctor(_ context.Context, d *account.Doctor) error {
	s.doctor = *d
	return nil
}

func (s *stubStore) GetPatientByID(_ context.Context, _ uuid.UUID) (*account.Patient, error) {
	return nil, account.ErrPatientNotFound
}

func (s *stubStore) GetPatientByEmail(_ context.Context, _ string) (*account.Patient, error) {
	return nil, account.ErrPatientNotFound
}

func (s *stubStore) GetPatientByCPF(_ context.Context, _ string) (*account.Patient, error) {
	return nil, account.ErrPatientNotFound
}

func (s *stubStore) UpdatePatient(_ context.Context, _ *account.Patient) error {
	return account.ErrPatientNotFound
}

func newProtectedRouter(t *testing.T, tokenTTL time.Duration) (http.Handler, string) {
	t.Helper()

	svc := auth.NewService(newStubStore(t), nil, "test-secret", tokenTTL, time.Minute)
	session, err := svc.Login(context.Background(), "d@x.com", "secret-password")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(svc))
		r.Get("/doctor-only", func(w http.ResponseWriter, req *http.Request) {
			writeData(w, http.StatusOK, "ok")
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RolePatient))
			r.Get("/patient-only", func(w http.ResponseWriter, req *http.Request) {
				writeData(w, http.StatusOK, "ok")
			})
		})
	})

	return r, session.Token
}

func doRequest(t *testing.T, handler http.Handler, authHeader, path string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handler, _ := newProtectedRouter(t, time.Hour)

	rec, body := doRequest(t, handler, "", "/doctor-only")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "no credentials supplied", body.Error)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	handler, token := newProtectedRouter(t, time.Hour)

	// A token without the Bearer scheme counts as no credentials
	rec, body := doRequest(t, handler, token, "/doctor-only")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no credentials supplied", body.Error)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler, _ := newProtectedRouter(t, time.Hour)

	rec, body := doRequest(t, handler, "Bearer not-a-token", "/doctor-only")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", body.Error)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	handler, token := newProtectedRouter(t, -time.Minute)

	rec, body := doRequest(t, handler, "Bearer "+token, "/doctor-only")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token expired", body.Error)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	handler, token := newProtectedRouter(t, time.Hour)

	rec, body := doRequest(t, handler, "Bearer "+token, "/doctor-only")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestRequireRole_Forbidden(t *testing.T) {
	handler, token := newProtectedRouter(t, time.Hour)

	// Doctor token against a patient-only route
	rec, body := doRequest(t, handler, "Bearer "+token, "/patient-only")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, body.Success)
}

func TestLoggingMiddlewareCapturesStatus(t *testing.T) {
	logger := zap.NewNop()

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "doctor not found")
	}))

	req := httptest.NewRequest(http.MethodGet, "/doctors/none", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
