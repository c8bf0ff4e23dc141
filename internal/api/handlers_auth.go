package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/agendasaude/healthcare-scheduling/internal/auth"
)

func loginHandler(svc *auth.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		if req.Identifier == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "identifier and password are required")
			return
		}

		session, err := svc.Login(r.Context(), req.Identifier, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			log.Error("login failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := LoginResponse{Token: session.Token, Role: string(session.Role)}
		switch session.Role {
		case auth.RoleDoctor:
			resp.Profile = toDoctorResponse(session.Doctor)
		case auth.RolePatient:
			resp.Profile = toPatientResponse(session.Patient)
		}

		writeData(w, http.StatusOK, resp)
	}
}

func passwordResetRequestHandler(svc *auth.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if req.Email == "" {
			writeError(w, http.StatusBadRequest, "email is required")
			return
		}

		// The token is delivered out of band (mailer integration point).
		// The response is identical whether or not the email has an account.
		if _, err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			log.Error("password reset request failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeMessage(w, http.StatusOK, nil, "if the email belongs to an account, reset instructions were sent")
	}
}

func passwordResetHandler(svc *auth.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetConfirm
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if req.Token == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "token and password are required")
			return
		}

		if err := svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
			if errors.Is(err, auth.ErrResetTokenInvalid) {
				writeError(w, http.StatusUnauthorized, "reset token invalid or expired")
				return
			}
			log.Error("password reset failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeMessage(w, http.StatusOK, nil, "password updated")
	}
}
