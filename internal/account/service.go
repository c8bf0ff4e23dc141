package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailInUse    = errors.New("email already in use")
	ErrCPFInUse      = errors.New("cpf already in use")
	ErrCRMInUse      = errors.New("crm already in use")
	ErrAddressExists = errors.New("owner already has an address")
)

type RegisterDoctorParams struct {
	Name      string
	Email     string
	CRM       string
	Specialty string
	CPF       string
	Password  string
}

type RegisterPatientParams struct {
	Name     string
	Email    string
	CPF      string
	Password string
}

// UpdateDoctorParams is the explicit allow-list of mutable doctor fields.
// Nil means leave the field unchanged. ID and creation time are immutable.
type UpdateDoctorParams struct {
	Name      *string
	Email     *string
	CRM       *string
	Specialty *string
	CPF       *string
	Password  *string
}

type UpdatePatientParams struct {
	Name     *string
	Email    *string
	CPF      *string
	Password *string
}

type AddressParams struct {
	PostalCode string
	Street     string
	Number     string
	District   string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Uniqueness guard. Checks run in a fixed order (email, then cpf, then crm)
// so a request violating several constraints always reports the same one.
// selfID excludes the record's own row when re-checking on update.

func (s *Service) checkDoctorEmail(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.repo.GetDoctorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil
		}
		return fmt.Errorf("check doctor email: %w", err)
	}
	if existing.ID != selfID {
		return ErrEmailInUse
	}
	return nil
}

func (s *Service) checkDoctorCPF(ctx context.Context, cpf string, selfID uuid.UUID) error {
	existing, err := s.repo.GetDoctorByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil
		}
		return fmt.Errorf("check doctor cpf: %w", err)
	}
	if existing.ID != selfID {
		return ErrCPFInUse
	}
	return nil
}

func (s *Service) checkDoctorCRM(ctx context.Context, crm string, selfID uuid.UUID) error {
	existing, err := s.repo.GetDoctorByCRM(ctx, crm)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil
		}
		return fmt.Errorf("check doctor crm: %w", err)
	}
	if existing.ID != selfID {
		return ErrCRMInUse
	}
	return nil
}

func (s *Service) checkPatientEmail(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.repo.GetPatientByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil
		}
		return fmt.Errorf("check patient email: %w", err)
	}
	if existing.ID != selfID {
		return ErrEmailInUse
	}
	return nil
}

func (s *Service) checkPatientCPF(ctx context.Context, cpf string, selfID uuid.UUID) error {
	existing, err := s.repo.GetPatientByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil
		}
		return fmt.Errorf("check patient cpf: %w", err)
	}
	if existing.ID != selfID {
		return ErrCPFInUse
	}
	return nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Doctors

func (s *Service) RegisterDoctor(ctx context.Context, params RegisterDoctorParams) (*Doctor, error) {
	cpf := NormalizeCPF(params.CPF)

	if err := s.checkDoctorEmail(ctx, params.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkDoctorCPF(ctx, cpf, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkDoctorCRM(ctx, params.CRM, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	d := &Doctor{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		CRM:          params.CRM,
		Specialty:    params.Specialty,
		PasswordHash: hash,
		CPF:          cpf,
	}

	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	// Re-read so the response reflects stored state, not caller input
	created, err := s.repo.GetDoctorByID(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("read back doctor: %w", err)
	}
	return created, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByID(ctx, id)
}

func (s *Service) GetDoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	return s.repo.GetDoctorByEmail(ctx, email)
}

func (s *Service) GetDoctorByCPF(ctx context.Context, cpf string) (*Doctor, error) {
	return s.repo.GetDoctorByCPF(ctx, NormalizeCPF(cpf))
}

func (s *Service) GetDoctorsBySpecialty(ctx context.Context, specialty string) ([]Doctor, error) {
	return s.repo.GetDoctorsBySpecialty(ctx, specialty)
}

func (s *Service) GetDoctorsByName(ctx context.Context, name string) ([]Doctor, error) {
	return s.repo.GetDoctorsByName(ctx, name)
}

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return s.repo.ListDoctors(ctx)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, params UpdateDoctorParams) (*Doctor, error) {
	existing, err := s.repo.GetDoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only re-check identity fields the caller is actually changing,
	// otherwise an unchanged value would collide with the record itself.
	if params.Email != nil && *params.Email != existing.Email {
		if err := s.checkDoctorEmail(ctx, *params.Email, id); err != nil {
			return nil, err
		}
		existing.Email = *params.Email
	}
	if params.CPF != nil {
		cpf := NormalizeCPF(*params.CPF)
		if cpf != existing.CPF {
			if err := s.checkDoctorCPF(ctx, cpf, id); err != nil {
				return nil, err
			}
			existing.CPF = cpf
		}
	}
	if params.CRM != nil && *params.CRM != existing.CRM {
		if err := s.checkDoctorCRM(ctx, *params.CRM, id); err != nil {
			return nil, err
		}
		existing.CRM = *params.CRM
	}

	if params.Name != nil {
		existing.Name = *params.Name
	}
	if params.Specialty != nil {
		existing.Specialty = *params.Specialty
	}
	if params.Password != nil {
		hash, err := hashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}

	if err := s.repo.UpdateDoctor(ctx, existing); err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}

	updated, err := s.repo.GetDoctorByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read back doctor: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	// No cascade: dependent addresses and appointments are left in place.
	return s.repo.DeleteDoctor(ctx, id)
}

// Patients

func (s *Service) RegisterPatient(ctx context.Context, params RegisterPatientParams) (*Patient, error) {
	cpf := NormalizeCPF(params.CPF)

	if err := s.checkPatientEmail(ctx, params.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkPatientCPF(ctx, cpf, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		CPF:          cpf,
	}

	if err := s.repo.CreatePatient(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	created, err := s.repo.GetPatientByID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("read back patient: %w", err)
	}
	return created, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

func (s *Service) GetPatientByEmail(ctx context.Context, email string) (*Patient, error) {
	return s.repo.GetPatientByEmail(ctx, email)
}

func (s *Service) GetPatientByCPF(ctx context.Context, cpf string) (*Patient, error) {
	return s.repo.GetPatientByCPF(ctx, NormalizeCPF(cpf))
}

func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	return s.repo.ListPatients(ctx)
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, params UpdatePatientParams) (*Patient, error) {
	existing, err := s.repo.GetPatientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Email != nil && *params.Email != existing.Email {
		if err := s.checkPatientEmail(ctx, *params.Email, id); err != nil {
			return nil, err
		}
		existing.Email = *params.Email
	}
	if params.CPF != nil {
		cpf := NormalizeCPF(*params.CPF)
		if cpf != existing.CPF {
			if err := s.checkPatientCPF(ctx, cpf, id); err != nil {
				return nil, err
			}
			existing.CPF = cpf
		}
	}

	if params.Name != nil {
		existing.Name = *params.Name
	}
	if params.Password != nil {
		hash, err := hashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}

	if err := s.repo.UpdatePatient(ctx, existing); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}

	updated, err := s.repo.GetPatientByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read back patient: %w", err)
	}
	return updated, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePatient(ctx, id)
}

// Doctor address sub-resource

func (s *Service) CreateDoctorAddress(ctx context.Context, doctorID uuid.UUID, params AddressParams) (*Address, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}

	_, err := s.repo.GetDoctorAddress(ctx, doctorID)
	if err == nil {
		return nil, ErrAddressExists
	}
	if !errors.Is(err, ErrAddressNotFound) {
		return nil, fmt.Errorf("check doctor address: %w", err)
	}

	a := &Address{
		ID:         uuid.New(),
		OwnerID:    doctorID,
		PostalCode: params.PostalCode,
		Street:     params.Street,
		Number:     params.Number,
		District:   params.District,
	}
	if err := s.repo.CreateDoctorAddress(ctx, a); err != nil {
		return nil, fmt.Errorf("create doctor address: %w", err)
	}

	return s.repo.GetDoctorAddress(ctx, doctorID)
}

func (s *Service) GetDoctorAddress(ctx context.Context, doctorID uuid.UUID) (*Address, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.GetDoctorAddress(ctx, doctorID)
}

func (s *Service) UpdateDoctorAddress(ctx context.Context, doctorID uuid.UUID, params AddressParams) (*Address, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetDoctorAddress(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	existing.PostalCode = params.PostalCode
	existing.Street = params.Street
	existing.Number = params.Number
	existing.District = params.District

	if err := s.repo.UpdateDoctorAddress(ctx, existing); err != nil {
		return nil, fmt.Errorf("update doctor address: %w", err)
	}

	return s.repo.GetDoctorAddress(ctx, doctorID)
}

func (s *Service) DeleteDoctorAddress(ctx context.Context, doctorID uuid.UUID) error {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return err
	}
	return s.repo.DeleteDoctorAddress(ctx, doctorID)
}

// Patient address sub-resource

func (s *Service) CreatePatientAddress(ctx context.Context, patientID uuid.UUID, params AddressParams) (*Address, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}

	_, err := s.repo.GetPatientAddress(ctx, patientID)
	if err == nil {
		return nil, ErrAddressExists
	}
	if !errors.Is(err, ErrAddressNotFound) {
		return nil, fmt.Errorf("check patient address: %w", err)
	}

	a := &Address{
		ID:         uuid.New(),
		OwnerID:    patientID,
		PostalCode: params.PostalCode,
		Street:     params.Street,
		Number:     params.Number,
		District:   params.District,
	}
	if err := s.repo.CreatePatientAddress(ctx, a); err != nil {
		return nil, fmt.Errorf("create patient address: %w", err)
	}

	return s.repo.GetPatientAddress(ctx, patientID)
}

func (s *Service) GetPatientAddress(ctx context.Context, patientID uuid.UUID) (*Address, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.GetPatientAddress(ctx, patientID)
}

func (s *Service) UpdatePatientAddress(ctx context.Context, patientID uuid.UUID, params AddressParams) (*Address, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPatientAddress(ctx, patientID)
	if err != nil {
		return nil, err
	}

	existing.PostalCode = params.PostalCode
	existing.Street = params.Street
	existing.Number = params.Number
	existing.District = params.District

	if err := s.repo.UpdatePatientAddress(ctx, existing); err != nil {
		return nil, fmt.Errorf("update patient address: %w", err)
	}

	return s.repo.GetPatientAddress(ctx, patientID)
}

func (s *Service) DeletePatientAddress(ctx context.Context, patientID uuid.UUID) error {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return err
	}
	return s.repo.DeletePatientAddress(ctx, patientID)
}
