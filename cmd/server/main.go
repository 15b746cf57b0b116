package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"medremind/internal/config"
	"medremind/internal/database"
	"medremind/internal/handlers"
	"medremind/internal/middleware"
	"medremind/internal/repository"
	"medremind/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg.Server.Environment)

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("failed to create data directory")
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize schema")
	}

	medicationRepo := repository.NewMedicationRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	tracker, err := services.NewTrackerService(medicationRepo, appointmentRepo, reminderRepo, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load tracker state")
	}
	notifier := services.NewNotificationService(cfg.Notifications.AllowByDefault, log.Logger)

	if cfg.SeedDemoData && len(tracker.Reminders()) == 0 {
		if err := tracker.SeedDemoData(); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/medications", func(r chi.Router) {
			r.Get("/", handlers.HandleGetMedications(tracker))
			r.Post("/", handlers.HandleCreateMedication(tracker))
			r.Get("/{id}", handlers.HandleGetMedication(tracker))
			r.Put("/{id}", handlers.HandleUpdateMedication(tracker))
			r.Delete("/{id}", handlers.HandleDeleteMedication(tracker))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", handlers.HandleGetAppointments(tracker))
			r.Post("/", handlers.HandleCreateAppointment(tracker))
			r.Get("/{id}", handlers.HandleGetAppointment(tracker))
			r.Put("/{id}", handlers.HandleUpdateAppointment(tracker))
			r.Delete("/{id}", handlers.HandleDeleteAppointment(tracker))
			r.Post("/{id}/complete", handlers.HandleCompleteAppointment(tracker))
			r.Post("/{id}/miss", handlers.HandleMissAppointment(tracker))
			r.Post("/{id}/checklist/{itemID}/toggle", handlers.HandleToggleChecklistItem(tracker))
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/", handlers.HandleGetReminders(tracker))
			r.Post("/", handlers.HandleCreateReminder(tracker))
			r.Get("/due", handlers.HandleGetDueReminders(tracker))
			r.Get("/{id}", handlers.HandleGetReminder(tracker))
			r.Put("/{id}", handlers.HandleUpdateReminder(tracker))
			r.Delete("/{id}", handlers.HandleDeleteReminder(tracker))
			r.Post("/{id}/take", handlers.HandleTakeReminder(tracker))
			r.Post("/{id}/snooze", handlers.HandleSnoozeReminder(tracker))
			r.Post("/{id}/skip", handlers.HandleSkipReminder(tracker))
		})

		r.Get("/stats/weekly", handlers.HandleGetWeeklyStats(tracker))
		r.Post("/seed", handlers.HandleSeedDemoData(tracker))

		r.Get("/export/pdf", handlers.HandleExportPDF(tracker))
		r.Get("/export/csv", handlers.HandleExportCSV(tracker))

		r.Post("/notifications/permission", handlers.HandleRequestNotificationPermission(notifier))
		r.Post("/notifications/test", handlers.HandleNotify(notifier))
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// initLogger configures the global zerolog logger: console output during
// development, JSON otherwise.
func initLogger(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Str("service", "medremind").Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("service", "medremind").
			Logger()
	}
}
