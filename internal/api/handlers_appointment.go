package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendasaude/healthcare-scheduling/internal/appointment"
)

func handleAppointmentError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor not found")
	case errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient not found")
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid appointment status")
	case errors.Is(err, appointment.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "invalid appointment type")
	case errors.Is(err, appointment.ErrSymptomsRequired):
		writeError(w, http.StatusBadRequest, "symptoms are required")
	default:
		log.Error("appointment operation failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func createAppointmentHandler(svc *appointment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "doctor_id must be a valid UUID")
			return
		}
		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "patient_id must be a valid UUID")
			return
		}
		if req.DateTime.IsZero() {
			writeError(w, http.StatusBadRequest, "date_time is required")
			return
		}

		appt, err := svc.Create(r.Context(), appointment.CreateParams{
			DateTime:     req.DateTime,
			Status:       appointment.Status(req.Status),
			Type:         appointment.Type(req.Type),
			Symptoms:     req.Symptoms,
			Diagnosis:    req.Diagnosis,
			Prescription: req.Prescription,
			DoctorNotes:  req.DoctorNotes,
			DoctorID:     doctorID,
			PatientID:    patientID,
		})
		if err != nil {
			handleAppointmentError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusCreated, toAppointmentResponse(appt), "appointment scheduled")
	}
}

func getAppointmentHandler(svc *appointment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		appt, err := svc.GetByID(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func listAppointmentsByDoctorHandler(svc *appointment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, ok := parseIDParam(w, r, "doctorId")
		if !ok {
			return
		}

		appts, err := svc.ListByDoctor(r.Context(), doctorID)
		if err != nil {
			handleAppointmentError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func listAppointmentsByPatientHandler(svc *appointment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := parseIDParam(w, r, "patientId")
		if !ok {
			return
		}

		appts, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			handleAppointmentError(w, r, log, err)
			return
		}

		writeData(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func updateAppointmentHandler(svc *appointment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		params := appointment.UpdateParams{
			DateTime:     req.DateTime,
			Symptoms:     req.Symptoms,
			Diagnosis:    req.Diagnosis,
			Prescription: req.Prescription,
			DoctorNotes:  req.DoctorNotes,
		}
		if req.Status != nil {
			status := appointment.Status(*req.Status)
			params.Status = &status
		}
		if req.Type != nil {
			kind := appointment.Type(*req.Type)
			params.Type = &kind
		}

		appt, err := svc.Update(r.Context(), id, params)
		if err != nil {
			handleAppointmentError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, toAppointmentResponse(appt), "appointment updated")
	}
}

func deleteAppointmentHandler(svc *appointment.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleAppointmentError(w, r, log, err)
			return
		}

		writeMessage(w, http.StatusOK, nil, "appointment removed")
	}
}
