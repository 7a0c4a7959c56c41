package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/session"
)

// CareService manages which doctors may read a patient's records.
type CareService struct {
	db *gorm.DB
}

func NewCareService(db *gorm.DB) *CareService {
	return &CareService{db: db}
}

// ShareWithDoctor links patientID to doctorID. Sharing twice is a no-op.
func (s *CareService) ShareWithDoctor(ctx context.Context, patientID, doctorID uuid.UUID) (*models.CareLink, error) {
	var doctor models.User
	err := s.db.WithContext(ctx).First(&doctor, "id = ? AND role = ?", doctorID, models.RoleDoctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("doctor")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	link := models.CareLink{PatientID: patientID, DoctorID: doctorID}
	err = s.db.WithContext(ctx).
		Where(models.CareLink{PatientID: patientID, DoctorID: doctorID}).
		FirstOrCreate(&link).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &link, nil
}

// ListPatients returns the patients that shared data with doctorID.
func (s *CareService) ListPatients(ctx context.Context, doctorID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("PatientProfile").
		Joins("JOIN care_links ON care_links.patient_id = users.id").
		Where("care_links.doctor_id = ?", doctorID).
		Order("users.full_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return users, nil
}

// ListDoctors returns the doctors patientID shares data with.
func (s *CareService) ListDoctors(ctx context.Context, patientID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("DoctorProfile").
		Joins("JOIN care_links ON care_links.doctor_id = users.id").
		Where("care_links.patient_id = ?", patientID).
		Order("users.full_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return users, nil
}

// Directory lists every doctor, for patients choosing whom to share with.
func (s *CareService) Directory(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("DoctorProfile").
		Where("role = ?", models.RoleDoctor).
		Order("full_name ASC").
		Limit(MaxListLimit).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return users, nil
}

// LinkBetween returns the link joining a and b in either direction.
func (s *CareService) LinkBetween(ctx context.Context, a, b uuid.UUID) (*models.CareLink, error) {
	var link models.CareLink
	err := s.db.WithContext(ctx).
		Where("(patient_id = ? AND doctor_id = ?) OR (patient_id = ? AND doctor_id = ?)", a, b, b, a).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewForbiddenError("No care link with this user")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &link, nil
}

// ResolveSubject picks whose records a request reads. An empty requested ID
// means the caller. Doctors may read linked patients.
func (s *CareService) ResolveSubject(ctx context.Context, sess session.Session, requested string) (uuid.UUID, error) {
	if requested == "" {
		return sess.UserID, nil
	}
	id, err := uuid.Parse(requested)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("userId must be a UUID")
	}
	if id == sess.UserID {
		return id, nil
	}
	if !sess.IsDoctor() {
		return uuid.Nil, apperrors.NewForbiddenError("Patients can only read their own records")
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.CareLink{}).
		Where("patient_id = ? AND doctor_id = ?", id, sess.UserID).
		Count(&count).Error
	if err != nil {
		return uuid.Nil, apperrors.NewDatabaseError(err)
	}
	if count == 0 {
		return uuid.Nil, apperrors.NewForbiddenError("Patient has not shared data with you")
	}
	return id, nil
}

// CanView reports whether sess may see the account of userID.
func (s *CareService) CanView(ctx context.Context, sess session.Session, userID uuid.UUID) error {
	if userID == sess.UserID {
		return nil
	}
	_, err := s.LinkBetween(ctx, sess.UserID, userID)
	return err
}
