package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID           uuid.UUID
	Name         string
	Email        string
	CRM          string
	Specialty    string
	PasswordHash string
	CPF          string
	Created      time.Time
}

type Patient struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CPF          string
	Created      time.Time
}

// Address is the single address record owned by a doctor or a patient.
// Both owner kinds share the same shape; they live in separate tables.
type Address struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	PostalCode string
	Street     string
	Number     string
	District   string
}

// NormalizeCPF strips formatting characters so "111.111.111-11" and
// "11111111111" refer to the same document.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
