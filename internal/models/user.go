package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the account type.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

type User struct {
	ID             uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	FullName       string          `gorm:"size:150;not null" json:"fullName"`
	Email          string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string          `gorm:"not null" json:"-"`
	Role           Role            `gorm:"size:16;not null;index" json:"role"`
	DateOfBirth    *string         `gorm:"size:10" json:"dateOfBirth,omitempty"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"patientProfile,omitempty"`
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"doctorProfile,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// BeforeCreate assigns an ID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PatientProfile holds the clinical data collected at patient signup.
type PatientProfile struct {
	ID                  uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID              uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`
	DiabetesType        string    `gorm:"size:50;not null" json:"diabetesType"`
	DiagnosisDate       *string   `gorm:"size:10" json:"diagnosisDate,omitempty"`
	Treatment           string    `gorm:"size:100;not null" json:"treatment"`
	GlucoseChecksPerDay *string   `gorm:"size:20" json:"glucoseChecksPerDay,omitempty"`
	UsesInsulin         bool      `gorm:"not null;default:false" json:"usesInsulin"`
	BolusInsulin        *string   `gorm:"size:100" json:"bolusInsulin,omitempty"`
	BasalInsulin        *string   `gorm:"size:100" json:"basalInsulin,omitempty"`
}

func (p *PatientProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DoctorProfile holds professional data collected at doctor signup.
type DoctorProfile struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`
	Specialty   string    `gorm:"size:100;not null" json:"specialty"`
	CRM         string    `gorm:"size:30;not null" json:"crm"`
	Institution string    `gorm:"size:150;not null" json:"institution"`
}

func (d *DoctorProfile) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
