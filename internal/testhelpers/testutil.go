package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "testpassword123"

// CreateTestPatient creates a patient with a profile.
func CreateTestPatient(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := newUser(t, models.RolePatient)
	user.PatientProfile = &models.PatientProfile{
		DiabetesType: "Tipo 1",
		Treatment:    "Insulina",
		UsesInsulin:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test patient: %v", err)
	}
	return user
}

// CreateTestDoctor creates a doctor with a profile.
func CreateTestDoctor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := newUser(t, models.RoleDoctor)
	user.DoctorProfile = &models.DoctorProfile{
		Specialty:   "Endocrinologista",
		CRM:         "12345-SP",
		Institution: "Hospital Teste",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test doctor: %v", err)
	}
	return user
}

// LinkCare shares patient's data with doctor.
func LinkCare(t *testing.T, db *gorm.DB, patient, doctor *models.User) *models.CareLink {
	t.Helper()
	link := &models.CareLink{PatientID: patient.ID, DoctorID: doctor.ID}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create care link: %v", err)
	}
	return link
}

// CreateGlucose stores a glucose reading for userID.
func CreateGlucose(t *testing.T, db *gorm.DB, userID uuid.UUID, value int, at time.Time) *models.GlucoseMeasurement {
	t.Helper()
	g := &models.GlucoseMeasurement{UserID: userID, Value: value, Period: "Jejum", MeasuredAt: at}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("failed to create glucose: %v", err)
	}
	return g
}

func newUser(t *testing.T, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	id := uuid.New()
	return &models.User{
		ID:           id,
		FullName:     "Test " + string(role),
		Email:        fmt.Sprintf("test+%s@example.com", id.String()),
		PasswordHash: string(hash),
		Role:         role,
	}
}
