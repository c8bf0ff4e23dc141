package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrAddressNotFound = errors.New("address not found")
)

// Repository contains all DB interactions needed by the account service.
type Repository interface {
	CreateDoctor(ctx context.Context, d *Doctor) error
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetDoctorByEmail(ctx context.Context, email string) (*Doctor, error)
	GetDoctorByCPF(ctx context.Context, cpf string) (*Doctor, error)
	GetDoctorByCRM(ctx context.Context, crm string) (*Doctor, error)
	GetDoctorsBySpecialty(ctx context.Context, specialty string) ([]Doctor, error)
	GetDoctorsByName(ctx context.Context, name string) ([]Doctor, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)
	UpdateDoctor(ctx context.Context, d *Doctor) error
	DeleteDoctor(ctx context.Context, id uuid.UUID) error

	CreatePatient(ctx context.Context, p *Patient) error
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPatientByEmail(ctx context.Context, email string) (*Patient, error)
	GetPatientByCPF(ctx context.Context, cpf string) (*Patient, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	UpdatePatient(ctx context.Context, p *Patient) error
	DeletePatient(ctx context.Context, id uuid.UUID) error

	// Address sub-resource, one table per owner kind
	CreateDoctorAddress(ctx context.Context, a *Address) error
	GetDoctorAddress(ctx context.Context, doctorID uuid.UUID) (*Address, error)
	UpdateDoctorAddress(ctx context.Context, a *Address) error
	DeleteDoctorAddress(ctx context.Context, doctorID uuid.UUID) error

	CreatePatientAddress(ctx context.Context, a *Address) error
	GetPatientAddress(ctx context.Context, patientID uuid.UUID) (*Address, error)
	UpdatePatientAddress(ctx context.Context, a *Address) error
	DeletePatientAddress(ctx context.Context, patientID uuid.UUID) error
}
