package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/session"
	"github.com/dia-app/dia/backend/internal/testhelpers"
)

func sessionOf(u *models.User) session.Session {
	return session.Session{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func TestShareWithDoctor(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	svc := service.NewCareService(db)
	patient := testhelpers.CreateTestPatient(t, db)
	doctor := testhelpers.CreateTestDoctor(t, db)
	ctx := context.Background()

	first, err := svc.ShareWithDoctor(ctx, patient.ID, doctor.ID)
	require.NoError(t, err)
	second, err := svc.ShareWithDoctor(ctx, patient.ID, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.CareLink{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	doctors, err := svc.ListDoctors(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, doctor.ID, doctors[0].ID)
	assert.NotNil(t, doctors[0].DoctorProfile)

	patients, err := svc.ListPatients(ctx, doctor.ID)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, patient.ID, patients[0].ID)

	directory, err := svc.Directory(ctx)
	require.NoError(t, err)
	require.Len(t, directory, 1)
	assert.Equal(t, models.RoleDoctor, directory[0].Role)

	t.Run("target is not a doctor", func(t *testing.T) {
		other := testhelpers.CreateTestPatient(t, db)
		_, err := svc.ShareWithDoctor(ctx, patient.ID, other.ID)
		assert.True(t, apperrors.IsType(err, apperrors.TypeNotFound))
	})
}

func TestResolveSubject(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	svc := service.NewCareService(db)
	patient := testhelpers.CreateTestPatient(t, db)
	otherPatient := testhelpers.CreateTestPatient(t, db)
	doctor := testhelpers.CreateTestDoctor(t, db)
	strangerDoctor := testhelpers.CreateTestDoctor(t, db)
	testhelpers.LinkCare(t, db, patient, doctor)
	ctx := context.Background()

	tests := []struct {
		name     string
		sess     session.Session
		request  string
		want     uuid.UUID
		wantType apperrors.ErrorType
	}{
		{"self by default", sessionOf(patient), "", patient.ID, ""},
		{"self explicitly", sessionOf(patient), patient.ID.String(), patient.ID, ""},
		{"linked doctor", sessionOf(doctor), patient.ID.String(), patient.ID, ""},
		{"unlinked doctor", sessionOf(strangerDoctor), patient.ID.String(), uuid.Nil, apperrors.TypePermission},
		{"patient reading another patient", sessionOf(otherPatient), patient.ID.String(), uuid.Nil, apperrors.TypePermission},
		{"malformed id", sessionOf(doctor), "abc", uuid.Nil, apperrors.TypeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveSubject(ctx, tt.sess, tt.request)
			if tt.wantType != "" {
				assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanView(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	svc := service.NewCareService(db)
	patient := testhelpers.CreateTestPatient(t, db)
	doctor := testhelpers.CreateTestDoctor(t, db)
	stranger := testhelpers.CreateTestPatient(t, db)
	testhelpers.LinkCare(t, db, patient, doctor)
	ctx := context.Background()

	assert.NoError(t, svc.CanView(ctx, sessionOf(patient), patient.ID))
	assert.NoError(t, svc.CanView(ctx, sessionOf(patient), doctor.ID))
	assert.NoError(t, svc.CanView(ctx, sessionOf(doctor), patient.ID))
	assert.True(t, apperrors.IsType(svc.CanView(ctx, sessionOf(stranger), patient.ID), apperrors.TypePermission))
}
