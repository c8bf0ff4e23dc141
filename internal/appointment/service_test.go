package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*fakeRepo)(nil)

type fakeRepo struct {
	doctors      map[uuid.UUID]DoctorRef
	patients     map[uuid.UUID]PatientRef
	appointments map[uuid.UUID]*Appointment

	lookupOrder []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:      make(map[uuid.UUID]DoctorRef),
		patients:     make(map[uuid.UUID]PatientRef),
		appointments: make(map[uuid.UUID]*Appointment),
	}
}

func (f *fakeRepo) GetDoctorRef(_ context.Context, id uuid.UUID) (*DoctorRef, error) {
	f.lookupOrder = append(f.lookupOrder, "doctor")
	if d, ok := f.doctors[id]; ok {
		return &d, nil
	}
	return nil, ErrDoctorNotFound
}

func (f *fakeRepo) GetPatientRef(_ context.Context, id uuid.UUID) (*PatientRef, error) {
	f.lookupOrder = append(f.lookupOrder, "patient")
	if p, ok := f.patients[id]; ok {
		return &p, nil
	}
	return nil, ErrPatientNotFound
}

func (f *fakeRepo) CreateAppointment(_ context.Context, a *Appointment) error {
	cp := *a
	cp.Created = time.Now()
	f.appointments[a.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	if a, ok := f.appointments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrAppointmentNotFound
}

func (f *fakeRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	var result []Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID {
			result = append(result, *a)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]Appointment, error) {
	var result []Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			result = append(result, *a)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func sortNewestFirst(appointments []Appointment) {
	for i := 1; i < len(appointments); i++ {
		for j := i; j > 0 && appointments[j].DateTime.After(appointments[j-1].DateTime); j-- {
			appointments[j], appointments[j-1] = appointments[j-1], appointments[j]
		}
	}
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, a *Appointment) error {
	existing, ok := f.appointments[a.ID]
	if !ok {
		return ErrAppointmentNotFound
	}
	cp := *a
	cp.Created = existing.Created
	f.appointments[a.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(f.appointments, id)
	return nil
}

// Helpers

func seedParties(repo *fakeRepo) (doctorID, patientID uuid.UUID) {
	doctorID = uuid.New()
	patientID = uuid.New()
	repo.doctors[doctorID] = DoctorRef{ID: doctorID, Name: "Dr. Ana Souza", Specialty: "Cardiology"}
	repo.patients[patientID] = PatientRef{ID: patientID, Name: "João Lima"}
	return doctorID, patientID
}

func createParams(doctorID, patientID uuid.UUID) CreateParams {
	return CreateParams{
		DateTime:  time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		Symptoms:  "chest pain",
		DoctorID:  doctorID,
		PatientID: patientID,
	}
}

func TestCreate_DefaultsAndDenormalization(t *testing.T) {
	repo := newFakeRepo()
	doctorID, patientID := seedParties(repo)
	svc := NewService(repo)

	appt, err := svc.Create(context.Background(), createParams(doctorID, patientID))
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, appt.Status, "status defaults to scheduled")
	assert.Equal(t, TypeInPerson, appt.Type)
	assert.Equal(t, "Dr. Ana Souza", appt.DoctorName)
	assert.Equal(t, "Cardiology", appt.Specialty)
	assert.Equal(t, doctorID, appt.DoctorID)
	assert.Equal(t, patientID, appt.PatientID)
}

func TestCreate_DoctorNameFrozen(t *testing.T) {
	repo := newFakeRepo()
	doctorID, patientID := seedParties(repo)
	svc := NewService(repo)

	appt, err := svc.Create(context.Background(), createParams(doctorID, patientID))
	require.NoError(t, err)

	// Renaming the doctor afterwards does not touch the stored copy
	repo.doctors[doctorID] = DoctorRef{ID: doctorID, Name: "Dr. Ana de Souza", Specialty: "Cardiology"}

	reread, err := svc.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ana Souza", reread.DoctorName)
}

func TestCreate_MissingDoctorCheckedFirst(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	// Neither party exists; the doctor is reported
	_, err := svc.Create(context.Background(), createParams(uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.Equal(t, []string{"doctor"}, repo.lookupOrder, "patient lookup skipped")
	assert.Empty(t, repo.appointments, "nothing written")
}

func TestCreate_MissingPatient(t *testing.T) {
	repo := newFakeRepo()
	doctorID := uuid.New()
	repo.doctors[doctorID] = DoctorRef{ID: doctorID, Name: "Dr. Ana Souza", Specialty: "Cardiology"}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), createParams(doctorID, uuid.New()))
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Empty(t, repo.appointments)
}

func TestCreate_Validation(t *testing.T) {
	repo := newFakeRepo()
	doctorID, patientID := seedParties(repo)
	svc := NewService(repo)
	ctx := context.Background()

	params := createParams(doctorID, patientID)
	params.Symptoms = ""
	_, err := svc.Create(ctx, params)
	assert.ErrorIs(t, err, ErrSymptomsRequired)

	params = createParams(doctorID, patientID)
	params.Status = "pending"
	_, err = svc.Create(ctx, params)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	params = createParams(doctorID, patientID)
	params.Type = "telepathy"
	_, err = svc.Create(ctx, params)
	assert.ErrorIs(t, err, ErrInvalidType)

	assert.Empty(t, repo.appointments)
}

func TestListByDoctor_NewestFirst(t *testing.T) {
	repo := newFakeRepo()
	doctorID, patientID := seedParties(repo)
	svc := NewService(repo)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
	}
	for _, when := range times {
		params := createParams(doctorID, patientID)
		params.DateTime = when
		_, err := svc.Create(ctx, params)
		require.NoError(t, err)
	}

	appts, err := svc.ListByDoctor(ctx, doctorID)
	require.NoError(t, err)
	require.Len(t, appts, 3)
	assert.True(t, appts[0].DateTime.After(appts[1].DateTime))
	assert.True(t, appts[1].DateTime.After(appts[2].DateTime))
}

func TestUpdate_MutableFieldsOnly(t *testing.T) {
	repo := newFakeRepo()
	doctorID, patientID := seedParties(repo)
	svc := NewService(repo)
	ctx := context.Background()

	appt, err := svc.Create(ctx, createParams(doctorID, patientID))
	require.NoError(t, err)

	status := StatusCompleted
	diagnosis := "stable angina"
	prescription := "isosorbide 5mg"
	updated, err := svc.Update(ctx, appt.ID, UpdateParams{
		Status:       &status,
		Diagnosis:    &diagnosis,
		Prescription: &prescription,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, updated.Status)
	require.NotNil(t, updated.Diagnosis)
	assert.Equal(t, "stable angina", *updated.Diagnosis)
	require.NotNil(t, updated.Prescription)
	assert.Equal(t, "isosorbide 5mg", *updated.Prescription)

	// Untouched fields survive, immutables unchanged
	assert.Equal(t, appt.ID, updated.ID)
	assert.Equal(t, appt.Created, updated.Created)
	assert.Equal(t, appt.Symptoms, updated.Symptoms)
	assert.Equal(t, appt.DoctorName, updated.DoctorName)
}

func TestUpdate_RejectsInvalidStatus(t *testing.T) {
	repo := newFakeRepo()
	doctorID, patientID := seedParties(repo)
	svc := NewService(repo)
	ctx := context.Background()

	appt, err := svc.Create(ctx, createParams(doctorID, patientID))
	require.NoError(t, err)

	bad := Status("pending")
	_, err = svc.Update(ctx, appt.ID, UpdateParams{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	doctorID, patientID := seedParties(repo)
	svc := NewService(repo)
	ctx := context.Background()

	appt, err := svc.Create(ctx, createParams(doctorID, patientID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, appt.ID))

	_, err = svc.GetByID(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, appt.ID), ErrAppointmentNotFound)
}
