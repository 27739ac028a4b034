package usecase

import (
	"context"
	"testing"

	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePrescription_Success(t *testing.T) {
	db, mock := setupMockDB(t)

	doctor := &entity.User{ID: uuid.New(), Email: "doc@clinic.test", FullName: "Dr. Gray", Role: entity.RoleDoctor}
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  doctor.ID,
		PatientID: uuid.New(),
		Status:    entity.AppointmentStatusCompleted,
	}

	prescriptionRepo := newFakePrescriptionRepo()
	audit := &fakeAuditService{}
	uc := NewPrescriptionUsecase(db, testLogger(), prescriptionRepo, newFakeAppointmentRepo(appointment), newFakeUserRepo(doctor), audit, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectCommit()

	actor := entity.Actor{ID: doctor.ID, Email: doctor.Email, Role: entity.RoleDoctor}
	resp, err := uc.Issue(context.Background(), actor, &dto.IssuePrescriptionRequest{
		AppointmentID: appointment.ID,
		Drugs: []dto.DrugItemRequest{
			{Name: "Amoxicillin", Dosage: "500mg", Instructions: "Three times daily"},
			{Name: "Ibuprofen", Dosage: "200mg"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, appointment.ID, resp.AppointmentID)
	assert.Equal(t, doctor.ID, resp.DoctorID)
	require.Len(t, resp.Drugs, 2)
	assert.Equal(t, "Amoxicillin", resp.Drugs[0].Name)
	assert.Equal(t, "Ibuprofen", resp.Drugs[1].Name)
	assert.Equal(t, []string{entity.AuditActionPrescriptionIssue}, audit.actions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssuePrescription_AppointmentNotCompleted(t *testing.T) {
	db, mock := setupMockDB(t)

	doctorID := uuid.New()
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: uuid.New(),
		Status:    entity.AppointmentStatusConfirmed,
	}

	uc := NewPrescriptionUsecase(db, testLogger(), newFakePrescriptionRepo(), newFakeAppointmentRepo(appointment), newFakeUserRepo(), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: doctorID, Role: entity.RoleDoctor}
	_, err := uc.Issue(context.Background(), actor, &dto.IssuePrescriptionRequest{
		AppointmentID: appointment.ID,
		Drugs:         []dto.DrugItemRequest{{Name: "Amoxicillin", Dosage: "500mg"}},
	})

	assert.ErrorIs(t, err, ErrAppointmentNotCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssuePrescription_OtherDoctorForbidden(t *testing.T) {
	db, mock := setupMockDB(t)

	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		Status:    entity.AppointmentStatusCompleted,
	}

	uc := NewPrescriptionUsecase(db, testLogger(), newFakePrescriptionRepo(), newFakeAppointmentRepo(appointment), newFakeUserRepo(), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: uuid.New(), Role: entity.RoleDoctor}
	_, err := uc.Issue(context.Background(), actor, &dto.IssuePrescriptionRequest{
		AppointmentID: appointment.ID,
		Drugs:         []dto.DrugItemRequest{{Name: "Amoxicillin", Dosage: "500mg"}},
	})

	assert.ErrorIs(t, err, ErrNotAppointmentParticipant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssuePrescription_SecondIssueRefused(t *testing.T) {
	db, mock := setupMockDB(t)

	doctorID := uuid.New()
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: uuid.New(),
		Status:    entity.AppointmentStatusCompleted,
	}
	prescriptionRepo := newFakePrescriptionRepo(&entity.Prescription{
		ID:            uuid.New(),
		AppointmentID: appointment.ID,
		DoctorID:      doctorID,
	})

	uc := NewPrescriptionUsecase(db, testLogger(), prescriptionRepo, newFakeAppointmentRepo(appointment), newFakeUserRepo(), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	actor := entity.Actor{ID: doctorID, Role: entity.RoleDoctor}
	_, err := uc.Issue(context.Background(), actor, &dto.IssuePrescriptionRequest{
		AppointmentID: appointment.ID,
		Drugs:         []dto.DrugItemRequest{{Name: "Amoxicillin", Dosage: "500mg"}},
	})

	assert.ErrorIs(t, err, ErrPrescriptionAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByAppointment_PatientCanRead(t *testing.T) {
	db, _ := setupMockDB(t)

	patientID := uuid.New()
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		PatientID: patientID,
		Status:    entity.AppointmentStatusCompleted,
	}
	prescriptionRepo := newFakePrescriptionRepo(&entity.Prescription{
		ID:            uuid.New(),
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		Drugs:         entity.DrugList{{Name: "Amoxicillin", Dosage: "500mg"}},
	})

	uc := NewPrescriptionUsecase(db, testLogger(), prescriptionRepo, newFakeAppointmentRepo(appointment), newFakeUserRepo(), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	actor := entity.Actor{ID: patientID, Role: entity.RolePatient}
	resp, err := uc.GetByAppointment(context.Background(), actor, appointment.ID)

	require.NoError(t, err)
	assert.Equal(t, appointment.ID, resp.AppointmentID)
}

func TestGetByAppointment_StrangerForbidden(t *testing.T) {
	db, _ := setupMockDB(t)

	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		Status:    entity.AppointmentStatusCompleted,
	}

	uc := NewPrescriptionUsecase(db, testLogger(), newFakePrescriptionRepo(), newFakeAppointmentRepo(appointment), newFakeUserRepo(), &fakeAuditService{}, testDispatcher(&fakeNotificationRepo{}))

	actor := entity.Actor{ID: uuid.New(), Role: entity.RolePatient}
	_, err := uc.GetByAppointment(context.Background(), actor, appointment.ID)

	assert.ErrorIs(t, err, ErrNotAppointmentParticipant)
}
