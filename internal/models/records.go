package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsulinType distinguishes background from mealtime insulin.
type InsulinType string

const (
	InsulinBasal InsulinType = "BASAL"
	InsulinBolus InsulinType = "BOLUS"
)

func (t InsulinType) Valid() bool {
	return t == InsulinBasal || t == InsulinBolus
}

// Intensity of a physical activity.
type Intensity string

const (
	IntensityLight    Intensity = "Leve"
	IntensityModerate Intensity = "Moderada"
	IntensityIntense  Intensity = "Intensa"
)

// Records are immutable once stored: there is no UpdatedAt and no soft delete.

type GlucoseMeasurement struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index:idx_glucose_user_time,priority:1" json:"userId"`
	Value      int       `gorm:"not null" json:"value"`
	MeasuredAt time.Time `gorm:"not null;index:idx_glucose_user_time,priority:2,sort:desc" json:"measuredAt"`
	Period     string    `gorm:"size:50;not null" json:"period"`
	Notes      *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (g *GlucoseMeasurement) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g GlucoseMeasurement) EventTime() time.Time { return g.MeasuredAt }

type InsulinDose struct {
	ID        uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:varchar(36);not null;index:idx_insulin_user_time,priority:1" json:"userId"`
	Units     int         `gorm:"not null" json:"units"`
	Type      InsulinType `gorm:"size:10;not null" json:"type"`
	AppliedAt time.Time   `gorm:"not null;index:idx_insulin_user_time,priority:2,sort:desc" json:"appliedAt"`
	Notes     *string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (d *InsulinDose) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d InsulinDose) EventTime() time.Time { return d.AppliedAt }

type Meal struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_meal_user_time,priority:1" json:"userId"`
	MealType  string    `gorm:"size:50;not null" json:"mealType"`
	Carbs     float64   `gorm:"not null" json:"carbs"`
	Protein   *float64  `json:"protein,omitempty"`
	Fat       *float64  `json:"fat,omitempty"`
	Sugar     *float64  `json:"sugar,omitempty"`
	EatenAt   time.Time `gorm:"not null;index:idx_meal_user_time,priority:2,sort:desc" json:"eatenAt"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m Meal) EventTime() time.Time { return m.EatenAt }

type Activity struct {
	ID              uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:varchar(36);not null;index:idx_activity_user_time,priority:1" json:"userId"`
	ActivityType    string     `gorm:"size:50;not null" json:"activityType"`
	DurationMinutes int        `gorm:"not null" json:"durationMinutes"`
	Intensity       *Intensity `gorm:"size:20" json:"intensity,omitempty"`
	Calories        *float64   `json:"calories,omitempty"`
	PerformedAt     time.Time  `gorm:"not null;index:idx_activity_user_time,priority:2,sort:desc" json:"performedAt"`
	Notes           *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a Activity) EventTime() time.Time { return a.PerformedAt }
