package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.CRM,
		&d.Specialty,
		&d.PasswordHash,
		&d.CPF,
		&d.Created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PasswordHash,
		&p.CPF,
		&p.Created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanAddress(row pgx.Row) (*Address, error) {
	var a Address

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.PostalCode,
		&a.Street,
		&a.Number,
		&a.District,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	return &a, nil
}

func collectDoctors(rows pgx.Rows) ([]Doctor, error) {
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Doctors

func (r *PgRepository) CreateDoctor(ctx context.Context, d *Doctor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, name, email, crm, specialty, password_hash, cpf, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`, d.ID, d.Name, d.Email, d.CRM, d.Specialty, d.PasswordHash, d.CPF)
	return err
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, crm, specialty, password_hash, cpf, created
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, crm, specialty, password_hash, cpf, created
		FROM doctors
		WHERE email = $1
	`, email)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorByCPF(ctx context.Context, cpf string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, crm, specialty, password_hash, cpf, created
		FROM doctors
		WHERE cpf = $1
	`, cpf)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorByCRM(ctx context.Context, crm string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, crm, specialty, password_hash, cpf, created
		FROM doctors
		WHERE crm = $1
	`, crm)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorsBySpecialty(ctx context.Context, specialty string) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, crm, specialty, password_hash, cpf, created
		FROM doctors
		WHERE specialty = $1
		ORDER BY name
	`, specialty)
	if err != nil {
		return nil, err
	}
	return collectDoctors(rows)
}

// GetDoctorsByName matches the full name exactly. Names are not unique, so
// several doctors may come back.
func (r *PgRepository) GetDoctorsByName(ctx context.Context, name string) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, crm, specialty, password_hash, cpf, created
		FROM doctors
		WHERE name = $1
		ORDER BY created
	`, name)
	if err != nil {
		return nil, err
	}
	return collectDoctors(rows)
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, crm, specialty, password_hash, cpf, created
		FROM doctors
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return collectDoctors(rows)
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d *Doctor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctors
		SET name = $2, email = $3, crm = $4, specialty = $5, password_hash = $6, cpf = $7
		WHERE id = $1
	`, d.ID, d.Name, d.Email, d.CRM, d.Specialty, d.PasswordHash, d.CPF)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *PgRepository) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM doctors WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// Patients

func (r *PgRepository) CreatePatient(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, name, email, password_hash, cpf, created)
		VALUES ($1, $2, $3, $4, $5, now())
	`, p.ID, p.Name, p.Email, p.PasswordHash, p.CPF)
	return err
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, cpf, created
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByEmail(ctx context.Context, email string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, cpf, created
		FROM patients
		WHERE email = $1
	`, email)
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByCPF(ctx context.Context, cpf string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, cpf, created
		FROM patients
		WHERE cpf = $1
	`, cpf)
	return scanPatient(row)
}

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, password_hash, cpf, created
		FROM patients
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET name = $2, email = $3, password_hash = $4, cpf = $5
		WHERE id = $1
	`, p.ID, p.Name, p.Email, p.PasswordHash, p.CPF)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *PgRepository) DeletePatient(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM patients WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// Doctor addresses

func (r *PgRepository) CreateDoctorAddress(ctx context.Context, a *Address) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctor_addresses (id, doctor_id, postal_code, street, number, district)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.OwnerID, a.PostalCode, a.Street, a.Number, a.District)
	return err
}

func (r *PgRepository) GetDoctorAddress(ctx context.Context, doctorID uuid.UUID) (*Address, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, postal_code, street, number, district
		FROM doctor_addresses
		WHERE doctor_id = $1
	`, doctorID)
	return scanAddress(row)
}

func (r *PgRepository) UpdateDoctorAddress(ctx context.Context, a *Address) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctor_addresses
		SET postal_code = $2, street = $3, number = $4, district = $5
		WHERE doctor_id = $1
	`, a.OwnerID, a.PostalCode, a.Street, a.Number, a.District)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *PgRepository) DeleteDoctorAddress(ctx context.Context, doctorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM doctor_addresses WHERE doctor_id = $1
	`, doctorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// Patient addresses

func (r *PgRepository) CreatePatientAddress(ctx context.Context, a *Address) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_addresses (id, patient_id, postal_code, street, number, district)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.OwnerID, a.PostalCode, a.Street, a.Number, a.District)
	return err
}

func (r *PgRepository) GetPatientAddress(ctx context.Context, patientID uuid.UUID) (*Address, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, postal_code, street, number, district
		FROM patient_addresses
		WHERE patient_id = $1
	`, patientID)
	return scanAddress(row)
}

func (r *PgRepository) UpdatePatientAddress(ctx context.Context, a *Address) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patient_addresses
		SET postal_code = $2, street = $3, number = $4, district = $5
		WHERE patient_id = $1
	`, a.OwnerID, a.PostalCode, a.Street, a.Number, a.District)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *PgRepository) DeletePatientAddress(ctx context.Context, patientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM patient_addresses WHERE patient_id = $1
	`, patientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}
