package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus    = errors.New("invalid appointment status")
	ErrInvalidType      = errors.New("invalid appointment type")
	ErrSymptomsRequired = errors.New("symptoms are required")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	DateTime     time.Time
	Status       Status // defaults to scheduled when empty
	Type         Type   // defaults to in_person when empty
	Symptoms     string
	Diagnosis    *string
	Prescription *string
	DoctorNotes  *string
	DoctorID     uuid.UUID
	PatientID    uuid.UUID
}

// UpdateParams is the explicit allow-list of mutable appointment fields.
// Nil leaves a field unchanged.
type UpdateParams struct {
	DateTime     *time.Time
	Status       *Status
	Type         *Type
	Symptoms     *string
	Diagnosis    *string
	Prescription *string
	DoctorNotes  *string
}

// Create verifies both referenced parties exist before anything is written.
// The doctor is checked first so a request with two dangling references
// reports the doctor.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Appointment, error) {
	doctor, err := s.repo.GetDoctorRef(ctx, params.DoctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	if _, err := s.repo.GetPatientRef(ctx, params.PatientID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	status := params.Status
	if status == "" {
		status = StatusScheduled
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	kind := params.Type
	if kind == "" {
		kind = TypeInPerson
	}
	if !ValidType(kind) {
		return nil, ErrInvalidType
	}

	if params.Symptoms == "" {
		return nil, ErrSymptomsRequired
	}

	a := &Appointment{
		ID:           uuid.New(),
		DateTime:     params.DateTime,
		Status:       status,
		Type:         kind,
		Symptoms:     params.Symptoms,
		Diagnosis:    params.Diagnosis,
		Prescription: params.Prescription,
		DoctorNotes:  params.DoctorNotes,
		Specialty:    doctor.Specialty,
		DoctorID:     doctor.ID,
		DoctorName:   doctor.Name,
		PatientID:    params.PatientID,
	}

	if err := s.repo.CreateAppointment(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	created, err := s.repo.GetAppointmentByID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("read back appointment: %w", err)
	}
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

// ListByDoctor returns the doctor's appointments, newest first.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

// ListByPatient returns the patient's appointments, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Appointment, error) {
	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Status != nil {
		if !ValidStatus(*params.Status) {
			return nil, ErrInvalidStatus
		}
		existing.Status = *params.Status
	}
	if params.Type != nil {
		if !ValidType(*params.Type) {
			return nil, ErrInvalidType
		}
		existing.Type = *params.Type
	}
	if params.DateTime != nil {
		existing.DateTime = *params.DateTime
	}
	if params.Symptoms != nil {
		if *params.Symptoms == "" {
			return nil, ErrSymptomsRequired
		}
		existing.Symptoms = *params.Symptoms
	}
	if params.Diagnosis != nil {
		existing.Diagnosis = params.Diagnosis
	}
	if params.Prescription != nil {
		existing.Prescription = params.Prescription
	}
	if params.DoctorNotes != nil {
		existing.DoctorNotes = params.DoctorNotes
	}

	if err := s.repo.UpdateAppointment(ctx, existing); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	updated, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read back appointment: %w", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAppointment(ctx, id)
}
