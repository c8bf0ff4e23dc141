package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
)

// parseIDParam rejects malformed ids before any lookup is attempted.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

func handleAccountError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, account.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor not found")
	case errors.Is(err, account.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient not found")
	case errors.Is(err, account.ErrAddressNotFound):
		writeError(w, http.StatusNotFound, "address not found")
	case errors.Is(err, account.ErrEmailInUse):
		writeError(w, http.StatusConflict, "email already in use")
	case errors.Is(err, account.ErrCPFInUse):
		writeError(w, http.StatusConflict, "cpf already in use")
	case errors.Is(err, account.ErrCRMInUse):
		writeError(w, http.StatusConflict, "crm already in use")
	case errors.Is(err, account.ErrAddressExists):
		writeError(w, http.StatusConflict, "owner already has an address")
	default:
		log.Error("account operation failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func registerDoctorHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterDoctorRequest
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
		case req.CRM == "":
			writeError(w, http.StatusBadRequest, "crm is required")
			return
		case req.Specialty == "":
			writeError(w, http.StatusBadRequest, "specialty is required")
			return
		case account.NormalizeCPF(req.CPF) == "":
			writeError(w, http.StatusBadRequest, "cpf is required")
			return
		case len(req.Password) < 6:
			writeError(w, http.StatusBadRequest, "password must have at least 6 characters")
			return
		}

		doctor, err := svc.RegisterDoctor(r.Context(), account.RegisterDoctorParams{
			Name:      req.Name,
			Email:     req.Email,
			CRM:       req.CRM,
			Specialty: req.Specialty,
			CPF:       req.CPF,
			Password:  req.Password,
		})
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusCreated, toDoctorResponse(doctor), "doctor registered")
	}
}

func getDoctorHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		doctor, err := svc.GetDoctor(r.Context(), id)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toDoctorResponse(doctor))
	}
}

func getDoctorByEmailHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if !validEmail(email) {
			writeError(w, http.StatusBadRequest, "email is invalid")
			return
		}

		doctor, err := svc.GetDoctorByEmail(r.Context(), email)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toDoctorResponse(doctor))
	}
}

func getDoctorByCPFHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cpf := chi.URLParam(r, "cpf")
		if account.NormalizeCPF(cpf) == "" {
			writeError(w, http.StatusBadRequest, "cpf is invalid")
			return
		}

		doctor, err := svc.GetDoctorByCPF(r.Context(), cpf)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toDoctorResponse(doctor))
	}
}

func getDoctorsByNameHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		doctors, err := svc.GetDoctorsByName(r.Context(), name)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toDoctorResponses(doctors))
	}
}

func getDoctorsBySpecialtyHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialty := chi.URLParam(r, "specialty")
		if specialty == "" {
			writeError(w, http.StatusBadRequest, "specialty is required")
			return
		}

		doctors, err := svc.GetDoctorsBySpecialty(r.Context(), specialty)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toDoctorResponses(doctors))
	}
}

func listDoctorsHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialty := r.URL.Query().Get("specialty")

		var (
			doctors []account.Doctor
			err     error
		)
		if specialty != "" {
			doctors, err = svc.GetDoctorsBySpecialty(r.Context(), specialty)
		} else {
			doctors, err = svc.ListDoctors(r.Context())
		}
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toDoctorResponses(doctors))
	}
}

func updateDoctorHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdateDoctorRequest
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

		doctor, err := svc.UpdateDoctor(r.Context(), id, account.UpdateDoctorParams{
			Name:      req.Name,
			Email:     req.Email,
			CRM:       req.CRM,
			Specialty: req.Specialty,
			CPF:       req.CPF,
			Password:  req.Password,
		})
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, toDoctorResponse(doctor), "doctor updated")
	}
}

func deleteDoctorHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteDoctor(r.Context(), id); err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, nil, "doctor removed")
	}
}

// Address sub-resource

func decodeAddress(w http.ResponseWriter, r *http.Request) (account.AddressParams, bool) {
	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse JSON")
		return account.AddressParams{}, false
	}
	if req.PostalCode == "" || req.Street == "" {
		writeError(w, http.StatusBadRequest, "postal_code and street are required")
		return account.AddressParams{}, false
	}
	return account.AddressParams{
		PostalCode: req.PostalCode,
		Street:     req.Street,
		Number:     req.Number,
		District:   req.District,
	}, true
}

func createDoctorAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		params, ok := decodeAddress(w, r)
		if !ok {
			return
		}

		address, err := svc.CreateDoctorAddress(r.Context(), id, params)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusCreated, toAddressResponse(address), "address created")
	}
}

func getDoctorAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		address, err := svc.GetDoctorAddress(r.Context(), id)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toAddressResponse(address))
	}
}

func updateDoctorAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		params, ok := decodeAddress(w, r)
		if !ok {
			return
		}

		address, err := svc.UpdateDoctorAddress(r.Context(), id, params)
		if err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, toAddressResponse(address), "address updated")
	}
}

func deleteDoctorAddressHandler(svc *account.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteDoctorAddress(r.Context(), id); err != nil {
			handleAccountError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, nil, "address removed")
	}
}
