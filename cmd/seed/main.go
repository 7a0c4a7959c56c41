package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/config"
	"github.com/dia-app/dia/backend/internal/database"
	"github.com/dia-app/dia/backend/internal/logger"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/session"
	"github.com/dia-app/dia/backend/internal/types"
)

const demoPassword = "demo12345"

func main() {
	days := flag.Int("days", 14, "Days of demo records to generate")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: "text"}); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, ""); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	if err := seed(context.Background(), db, cfg, *days); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Demo data ready", "password", demoPassword)
}

func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, days int) error {
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, session.NewMemoryRevocations())
	records := service.NewRecordService(db)
	care := service.NewCareService(db)

	doctorID, err := ensureUser(ctx, db, "medico@dia.example", func() (*types.AuthResponse, error) {
		return auth.SignupDoctor(ctx, types.SignupDoctorRequest{
			FullName:    "Dra. Helena Prado",
			Email:       "medico@dia.example",
			Password:    demoPassword,
			Specialty:   "Endocrinologia",
			CRM:         "123456-SP",
			Institution: "Clínica Dia",
		})
	})
	if err != nil {
		return err
	}

	checks, bolus, basal := "4", "Asparte", "Glargina"
	patientID, err := ensureUser(ctx, db, "paciente@dia.example", func() (*types.AuthResponse, error) {
		return auth.SignupPatient(ctx, types.SignupPatientRequest{
			FullName:      "João Pereira",
			Email:         "paciente@dia.example",
			Password:      demoPassword,
			DiabetesType:  "Tipo 1",
			Treatment:     "Insulina basal-bolus",
			GlucoseChecks: &checks,
			BolusInsulin:  &bolus,
			BasalInsulin:  &basal,
		})
	})
	if err != nil {
		return err
	}

	if _, err := care.ShareWithDoctor(ctx, patientID, doctorID); err != nil {
		return err
	}

	existing, err := records.ListGlucose(ctx, patientID, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("Demo patient already has records, skipping")
		return nil
	}
	return seedRecords(ctx, records, patientID, days)
}

// ensureUser returns the ID of the user with email, creating it with signup
// when missing.
func ensureUser(ctx context.Context, db *gorm.DB, email string, signup func() (*types.AuthResponse, error)) (uuid.UUID, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		slog.Info("User already exists, skipping", "email", email)
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	resp, err := signup()
	if err != nil {
		return uuid.Nil, err
	}
	slog.Info("Created demo user", "email", resp.User.Email, "role", resp.User.Role)
	return resp.User.ID, nil
}

func seedRecords(ctx context.Context, records *service.RecordService, userID uuid.UUID, days int) error {
	periods := []string{"Jejum", "Pós-almoço", "Antes de dormir"}
	glucose := []int{98, 145, 122, 110, 176, 131, 89, 154, 118}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for d := 0; d < days; d++ {
		day := today.AddDate(0, 0, -d-1)

		for i, period := range periods {
			value := glucose[(d*len(periods)+i)%len(glucose)]
			_, err := records.CreateGlucose(ctx, userID, types.CreateGlucoseRequest{
				Value:      value,
				MeasuredAt: day.Add(time.Duration(10+5*i) * time.Hour),
				Period:     period,
			})
			if err != nil {
				return err
			}
		}

		if _, err := records.CreateInsulin(ctx, userID, types.CreateInsulinRequest{
			Units:     18,
			Type:      models.InsulinBasal,
			AppliedAt: day.Add(10 * time.Hour),
		}); err != nil {
			return err
		}

		carbs, protein := 60.0, 25.0
		if _, err := records.CreateMeal(ctx, userID, types.CreateMealRequest{
			MealType: "Almoço",
			Carbs:    &carbs,
			Protein:  &protein,
			EatenAt:  day.Add(15 * time.Hour),
		}); err != nil {
			return err
		}
		if _, err := records.CreateInsulin(ctx, userID, types.CreateInsulinRequest{
			Units:     4,
			Type:      models.InsulinBolus,
			AppliedAt: day.Add(15 * time.Hour),
		}); err != nil {
			return err
		}

		if d%2 == 0 {
			intensity := "Moderada"
			if _, err := records.CreateActivity(ctx, userID, types.CreateActivityRequest{
				ActivityType:    "Caminhada",
				DurationMinutes: 40,
				Intensity:       &intensity,
				PerformedAt:     day.Add(21 * time.Hour),
			}); err != nil {
				return err
			}
		}
	}

	slog.Info("Created demo records", "days", days)
	return nil
}
