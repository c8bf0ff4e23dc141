package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agendasaude/healthcare-scheduling/internal/account"
	"github.com/agendasaude/healthcare-scheduling/internal/appointment"
	"github.com/agendasaude/healthcare-scheduling/internal/auth"
)

type RouterConfig struct {
	Accounts     *account.Service
	Appointments *appointment.Service
	Auth         *auth.Service
	Logger       *zap.Logger
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	log := cfg.Logger

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	authenticated := AuthMiddleware(cfg.Auth)
	doctorOnly := RequireRole(auth.RoleDoctor)
	patientOnly := RequireRole(auth.RolePatient)

	// Auth endpoints, all public
	r.Post("/auth/login", loginHandler(cfg.Auth, log))
	r.Post("/auth/password/request", passwordResetRequestHandler(cfg.Auth, log))
	r.Post("/auth/password/reset", passwordResetHandler(cfg.Auth, log))

	// Doctor endpoints
	r.Route("/doctors", func(r chi.Router) {
		// Registration is public
		r.Post("/", registerDoctorHandler(cfg.Accounts, log))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Get("/", listDoctorsHandler(cfg.Accounts, log))
			r.Get("/{id}", getDoctorHandler(cfg.Accounts, log))
			r.Get("/email/{email}", getDoctorByEmailHandler(cfg.Accounts, log))
			r.Get("/cpf/{cpf}", getDoctorByCPFHandler(cfg.Accounts, log))
			r.Get("/specialty/{specialty}", getDoctorsBySpecialtyHandler(cfg.Accounts, log))
			r.Get("/name/{name}", getDoctorsByNameHandler(cfg.Accounts, log))
			r.Get("/{id}/address", getDoctorAddressHandler(cfg.Accounts, log))

			// Profile and address mutations are doctor-only
			r.Group(func(r chi.Router) {
				r.Use(doctorOnly)
				r.Put("/{id}", updateDoctorHandler(cfg.Accounts, log))
				r.Delete("/{id}", deleteDoctorHandler(cfg.Accounts, log))
				r.Post("/{id}/address", createDoctorAddressHandler(cfg.Accounts, log))
				r.Put("/{id}/address", updateDoctorAddressHandler(cfg.Accounts, log))
				r.Delete("/{id}/address", deleteDoctorAddressHandler(cfg.Accounts, log))
			})
		})
	})

	// Patient endpoints
	r.Route("/patients", func(r chi.Router) {
		r.Post("/", registerPatientHandler(cfg.Accounts, log))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Get("/", listPatientsHandler(cfg.Accounts, log))
			r.Get("/{id}", getPatientHandler(cfg.Accounts, log))
			r.Get("/email/{email}", getPatientByEmailHandler(cfg.Accounts, log))
			r.Get("/cpf/{cpf}", getPatientByCPFHandler(cfg.Accounts, log))
			r.Get("/{id}/address", getPatientAddressHandler(cfg.Accounts, log))

			r.Group(func(r chi.Router) {
				r.Use(patientOnly)
				r.Put("/{id}", updatePatientHandler(cfg.Accounts, log))
				r.Delete("/{id}", deletePatientHandler(cfg.Accounts, log))
				r.Post("/{id}/address", createPatientAddressHandler(cfg.Accounts, log))
				r.Put("/{id}/address", updatePatientAddressHandler(cfg.Accounts, log))
				r.Delete("/{id}/address", deletePatientAddressHandler(cfg.Accounts, log))
			})
		})
	})

	// Appointment endpoints, any authenticated role
	r.Route("/appointments", func(r chi.Router) {
		r.Use(authenticated)

		r.Post("/", createAppointmentHandler(cfg.Appointments, log))
		r.Get("/{id}", getAppointmentHandler(cfg.Appointments, log))
		r.Get("/doctor/{doctorId}", listAppointmentsByDoctorHandler(cfg.Appointments, log))
		r.Get("/patient/{patientId}", listAppointmentsByPatientHandler(cfg.Appointments, log))
		r.Put("/{id}", updateAppointmentHandler(cfg.Appointments, log))
		r.Delete("/{id}", deleteAppointmentHandler(cfg.Appointments, log))
	})

	return r
}
