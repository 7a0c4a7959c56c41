package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CareLink grants a doctor read access to a patient's records and opens a
// message channel between them.
type CareLink struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	PatientID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_care_pair,priority:1" json:"patientId"`
	DoctorID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_care_pair,priority:2;index" json:"doctorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *CareLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type Message struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	LinkID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_message_link_time,priority:1" json:"linkId"`
	SenderID  uuid.UUID `gorm:"type:varchar(36);not null" json:"senderId"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index:idx_message_link_time,priority:2" json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// All lists every model, in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PatientProfile{},
		&DoctorProfile{},
		&GlucoseMeasurement{},
		&InsulinDose{},
		&Meal{},
		&Activity{},
		&CareLink{},
		&Message{},
	}
}
