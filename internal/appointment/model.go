package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusRescheduled Status = "rescheduled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRescheduled:
		return true
	}
	return false
}

type Type string

const (
	TypeInPerson  Type = "in_person"
	TypeRemote    Type = "remote"
	TypeHomeVisit Type = "home_visit"
	TypeUrgent    Type = "urgent"
)

func ValidType(t Type) bool {
	switch t {
	case TypeInPerson, TypeRemote, TypeHomeVisit, TypeUrgent:
		return true
	}
	return false
}

// Appointment links exactly one doctor and one patient. Specialty and
// DoctorName are copied from the doctor at creation time and not refreshed
// if the doctor record changes later.
type Appointment struct {
	ID           uuid.UUID
	DateTime     time.Time
	Status       Status
	Type         Type
	Symptoms     string
	Diagnosis    *string
	Prescription *string
	DoctorNotes  *string
	Specialty    string
	DoctorID     uuid.UUID
	DoctorName   string
	PatientID    uuid.UUID
	Created      time.Time
}

// DoctorRef and PatientRef are the minimal projections of the account tables
// this package needs for cross-reference checks.
type DoctorRef struct {
	ID        uuid.UUID
	Name      string
	Specialty string
}

type PatientRef struct {
	ID   uuid.UUID
	Name string
}
