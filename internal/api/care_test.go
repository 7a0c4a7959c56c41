package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dia-app/dia/backend/internal/models"
)

func TestCareHandlers(t *testing.T) {
	env := newTestEnv(t, Services{})
	patientID := env.login("patient", models.RolePatient)
	doctorID := env.login("doctor", models.RoleDoctor)

	env.care.On("ShareWithDoctor", mock.Anything, patientID, doctorID).
		Return(&models.CareLink{ID: uuid.New(), PatientID: patientID, DoctorID: doctorID}, nil)
	env.care.On("ListPatients", mock.Anything, doctorID).Return([]models.User{{ID: patientID, Role: models.RolePatient}}, nil)
	env.care.On("ListDoctors", mock.Anything, patientID).Return([]models.User{{ID: doctorID, Role: models.RoleDoctor}}, nil)
	env.care.On("Directory", mock.Anything).Return([]models.User{{ID: doctorID, Role: models.RoleDoctor}}, nil)

	rr := env.do(t, http.MethodPost, "/api/v1/care/doctors/"+doctorID.String(), "patient", nil)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), doctorID.String())

	rr = env.do(t, http.MethodPost, "/api/v1/care/doctors/"+doctorID.String(), "doctor", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code, "doctors cannot share")

	rr = env.do(t, http.MethodGet, "/api/v1/care/patients", "doctor", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), patientID.String())

	rr = env.do(t, http.MethodGet, "/api/v1/care/patients", "patient", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/care/doctors", "patient", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/v1/doctors", "patient", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/care/doctors/bad-id", "patient", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
