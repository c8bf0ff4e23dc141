package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
	"github.com/agendasaude/healthcare-scheduling/internal/appointment"
)

// Requests

type LoginRequest struct {
	// Identifier is an email when it contains "@", otherwise a CPF.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type RegisterDoctorRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CRM       string `json:"crm"`
	Specialty string `json:"specialty"`
	CPF       string `json:"cpf"`
	Password  string `json:"password"`
}

type UpdateDoctorRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	CRM       *string `json:"crm"`
	Specialty *string `json:"specialty"`
	CPF       *string `json:"cpf"`
	Password  *string `json:"password"`
}

type RegisterPatientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Password string `json:"password"`
}

type UpdatePatientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	CPF      *string `json:"cpf"`
	Password *string `json:"password"`
}

type AddressRequest struct {
	PostalCode string `json:"postal_code"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
}

type CreateAppointmentRequest struct {
	DateTime     time.Time `json:"date_time"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	Symptoms     string    `json:"symptoms"`
	Diagnosis    *string   `json:"diagnosis"`
	Prescription *string   `json:"prescription"`
	DoctorNotes  *string   `json:"doctor_notes"`
	DoctorID     string    `json:"doctor_id"`
	PatientID    string    `json:"patient_id"`
}

type UpdateAppointmentRequest struct {
	DateTime     *time.Time `json:"date_time"`
	Status       *string    `json:"status"`
	Type         *string    `json:"type"`
	Symptoms     *string    `json:"symptoms"`
	Diagnosis    *string    `json:"diagnosis"`
	Prescription *string    `json:"prescription"`
	DoctorNotes  *string    `json:"doctor_notes"`
}

// Responses. Profile payloads never carry the password hash.

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CRM       string    `json:"crm"`
	Specialty string    `json:"specialty"`
	CPF       string    `json:"cpf"`
	Created   time.Time `json:"created"`
}

type PatientResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	CPF     string    `json:"cpf"`
	Created time.Time `json:"created"`
}

type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	PostalCode string    `json:"postal_code"`
	Street     string    `json:"street"`
	Number     string    `json:"number"`
	District   string    `json:"district"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Profile any    `json:"profile"`
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	DateTime     time.Time `json:"date_time"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	Symptoms     string    `json:"symptoms"`
	Diagnosis    *string   `json:"diagnosis,omitempty"`
	Prescription *string   `json:"prescription,omitempty"`
	DoctorNotes  *string   `json:"doctor_notes,omitempty"`
	Specialty    string    `json:"specialty"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	DoctorName   string    `json:"doctor_name"`
	PatientID    uuid.UUID `json:"patient_id"`
	Created      time.Time `json:"created"`
}

// Mappers

func toDoctorResponse(d *account.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		CRM:       d.CRM,
		Specialty: d.Specialty,
		CPF:       d.CPF,
		Created:   d.Created,
	}
}

func toDoctorResponses(doctors []account.Doctor) []DoctorResponse {
	result := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		result = append(result, toDoctorResponse(&doctors[i]))
	}
	return result
}

func toPatientResponse(p *account.Patient) PatientResponse {
	return PatientResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		CPF:     p.CPF,
		Created: p.Created,
	}
}

func toPatientResponses(patients []account.Patient) []PatientResponse {
	result := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		result = append(result, toPatientResponse(&patients[i]))
	}
	return result
}

func toAddressResponse(a *account.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID,
		PostalCode: a.PostalCode,
		Street:     a.Street,
		Number:     a.Number,
		District:   a.District,
	}
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		DateTime:     a.DateTime,
		Status:       string(a.Status),
		Type:         string(a.Type),
		Symptoms:     a.Symptoms,
		Diagnosis:    a.Diagnosis,
		Prescription: a.Prescription,
		DoctorNotes:  a.DoctorNotes,
		Specialty:    a.Specialty,
		DoctorID:     a.DoctorID,
		DoctorName:   a.DoctorName,
		PatientID:    a.PatientID,
		Created:      a.Created,
	}
}

func toAppointmentResponses(appointments []appointment.Appointment) []AppointmentResponse {
	result := make([]AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		result = append(result, toAppointmentResponse(&appointments[i]))
	}
	return result
}
