package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/service"
	"github.com/dia-app/dia/backend/internal/testhelpers"
)

func TestMessages(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	care := service.NewCareService(db)
	svc := service.NewMessageService(db, care)
	patient := testhelpers.CreateTestPatient(t, db)
	doctor := testhelpers.CreateTestDoctor(t, db)
	testhelpers.LinkCare(t, db, patient, doctor)
	ctx := context.Background()

	_, err := svc.Send(ctx, patient.ID, doctor.ID, "Bom dia, doutor")
	require.NoError(t, err)
	reply, err := svc.Send(ctx, doctor.ID, patient.ID, "  Bom dia!  ")
	require.NoError(t, err)
	assert.Equal(t, "Bom dia!", reply.Body)
	assert.Equal(t, doctor.ID, reply.SenderID)

	list, err := svc.List(ctx, patient.ID, doctor.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bom dia, doutor", list[0].Body)
	assert.Equal(t, "Bom dia!", list[1].Body)

	fromDoctor, err := svc.List(ctx, doctor.ID, patient.ID, 0)
	require.NoError(t, err)
	assert.Len(t, fromDoctor, 2)

	t.Run("empty body", func(t *testing.T) {
		_, err := svc.Send(ctx, patient.ID, doctor.ID, "   ")
		assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
	})

	t.Run("too long", func(t *testing.T) {
		_, err := svc.Send(ctx, patient.ID, doctor.ID, strings.Repeat("a", 4001))
		assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
	})

	t.Run("no link", func(t *testing.T) {
		stranger := testhelpers.CreateTestDoctor(t, db)
		_, err := svc.Send(ctx, patient.ID, stranger.ID, "oi")
		assert.True(t, apperrors.IsType(err, apperrors.TypePermission))
		_, err = svc.List(ctx, stranger.ID, patient.ID, 0)
		assert.True(t, apperrors.IsType(err, apperrors.TypePermission))
	})
}
