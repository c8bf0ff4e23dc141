package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
)

func registerPatientHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		switch {
		case req.Name == "":
			writeError(w, http.StatusBadRequest, "name is required")
			return
		case !validEmail(req.Email):
			writeError(w, http.StatusBadRequest, "email is invalid")
			return
		case account.NormalizeCPF(req.CPF) == "":
			writeError(w, http.StatusBadRequest, "cpf is required")
			return
		case len(req.Password) < 6:
			writeError(w, http.StatusBadRequest, "password must have at least 6 characters")
			return
		}

		patient, err := svc.RegisterPatient(r.Context(), account.RegisterPatientParams{
			Name:     req.Name,
			Email:    req.Email,
			CPF:      req.CPF,
			Password: req.Password,
		})
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusCreated, toPatientResponse(patient), "patient registered")
	}
}

func getPatientHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		patient, err := svc.GetPatient(r.Context(), id)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toPatientResponse(patient))
	}
}

func getPatientByEmailHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if !validEmail(email) {
			writeError(w, http.StatusBadRequest, "email is invalid")
			return
		}

		patient, err := svc.GetPatientByEmail(r.Context(), email)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toPatientResponse(patient))
	}
}

func getPatientByCPFHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cpf := chi.URLParam(r, "cpf")
		if account.NormalizeCPF(cpf) == "" {
			writeError(w, http.StatusBadRequest, "cpf is invalid")
			return
		}

		patient, err := svc.GetPatientByCPF(r.Context(), cpf)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toPatientResponse(patient))
	}
}

func listPatientsHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListPatients(r.Context())
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toPatientResponses(patients))
	}
}

func updatePatientHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		if req.Email != nil && !validEmail(*req.Email) {
			writeError(w, http.StatusBadRequest, "email is invalid")
			return
		}
		if req.Password != nil && len(*req.Password) < 6 {
			writeError(w, http.StatusBadRequest, "password must have at least 6 characters")
			return
		}

		patient, err := svc.UpdatePatient(r.Context(), id, account.UpdatePatientParams{
			Name:     req.Name,
			Email:    req.Email,
			CPF:      req.CPF,
			Password: req.Password,
		})
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, toPatientResponse(patient), "patient updated")
	}
}

func deletePatientHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeletePatient(r.Context(), id); err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, nil, "patient removed")
	}
}

// Address sub-resource

func createPatientAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		params, ok := decodeAddress(w, r)
		if !ok {
			return
		}

		address, err := svc.CreatePatientAddress(r.Context(), id, params)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusCreated, toAddressResponse(address), "address created")
	}
}

func getPatientAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		address, err := svc.GetPatientAddress(r.Context(), id)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toAddressResponse(address))
	}
}

func updatePatientAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		params, ok := decodeAddress(w, r)
		if !ok {
			return
		}

		address, err := svc.UpdatePatientAddress(r.Context(), id, params)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, toAddressResponse(address), "address updated")
	}
}

func deletePatientAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeletePatientAddress(r.Context(), id); err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, nil, "address removed")
	}
}
