package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/agendasaude/healthcare-scheduling/internal/db"
)

// Every seeded account gets this password so logins can be exercised by hand.
const seedPassword = "seed-password"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	doctorIDs, err := seedDoctors(context.Background(), pool, string(hash), 50)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	patientIDs, err := seedPatients(context.Background(), pool, string(hash), 500)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, doctorIDs, patientIDs, 2000); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func fakeCPF() string {
	return gofakeit.Numerify("###########")
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, email, crm, specialty, password_hash, cpf, created)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		`, id, gofakeit.Name(), fmt.Sprintf("doctor%d@example.com", i),
			fmt.Sprintf("CRM-%06d", i), spec, passwordHash, fakeCPF())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, tx.Commit(ctx)
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d patients", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, name, email, password_hash, cpf, created)
			VALUES ($1, $2, $3, $4, $5, now())
		`, id, gofakeit.Name(), fmt.Sprintf("patient%d@example.com", i),
			passwordHash, fakeCPF())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, tx.Commit(ctx)
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctorIDs, patientIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d appointments", count)

	statuses := []string{"scheduled", "confirmed", "cancelled", "completed", "rescheduled"}
	types := []string{"in_person", "remote", "home_visit", "urgent"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		doctorID := doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)]
		patientID := patientIDs[gofakeit.Number(0, len(patientIDs)-1)]

		var doctorName, specialty string
		err := tx.QueryRow(ctx, `
			SELECT name, specialty FROM doctors WHERE id = $1
		`, doctorID).Scan(&doctorName, &specialty)
		if err != nil {
			return err
		}

		when := gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now().AddDate(0, 3, 0))

		_, err = tx.Exec(ctx, `
			INSERT INTO appointments (
				id, date_time, status, type, symptoms, specialty,
				doctor_id, doctor_name, patient_id, created
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		`, uuid.New(), when,
			statuses[gofakeit.Number(0, len(statuses)-1)],
			types[gofakeit.Number(0, len(types)-1)],
			gofakeit.Sentence(6), specialty, doctorID, doctorName, patientID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
