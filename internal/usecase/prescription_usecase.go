package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/techsplot/smart-health-backend/internal/converter"
	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/domain/repository"
	"github.com/techsplot/smart-health-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound      = errors.New("prescription not found")
	ErrAppointmentNotCompleted   = errors.New("appointment is not completed")
	ErrPrescriptionAlreadyExists = errors.New("prescription already issued for appointment")
	ErrNotPrescriptionOwner      = errors.New("prescription does not belong to you")
)

type PrescriptionUsecase interface {
	Issue(ctx context.Context, actor entity.Actor, req *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetByAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.PrescriptionResponse, error)
	ListForDoctor(ctx context.Context, actor entity.Actor) (*dto.PrescriptionListResponse, error)
	ListForPatient(ctx context.Context, actor entity.Actor) (*dto.PrescriptionListResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	appointmentRepo  repository.AppointmentRepository
	userRepo         repository.UserRepository
	audit            service.AuditService
	dispatcher       *service.NotificationDispatcher
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	audit service.AuditService,
	dispatcher *service.NotificationDispatcher,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
		userRepo:         userRepo,
		audit:            audit,
		dispatcher:       dispatcher,
	}
}

// Issue creates the single prescription for a completed appointment. Only
// the doctor who held the appointment may issue, and only once; the unique
// index on appointment_id backs the in-transaction check.
func (u *prescriptionUsecase) Issue(ctx context.Context, actor entity.Actor, req *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if appointment.DoctorID != actor.ID {
		return nil, ErrNotAppointmentParticipant
	}

	if !appointment.IsCompleted() {
		return nil, ErrAppointmentNotCompleted
	}

	existing, err := u.prescriptionRepo.FindByAppointmentID(tx, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to check existing prescription: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPrescriptionAlreadyExists
	}

	prescription := &entity.Prescription{
		AppointmentID: req.AppointmentID,
		DoctorID:      actor.ID,
		Drugs:         converter.DrugItemsFromRequests(req.Drugs),
	}

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		if isDuplicateKeyError(err, "appointment_id") {
			return nil, ErrPrescriptionAlreadyExists
		}
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	doctor, err := u.userRepo.FindByID(tx, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to load issuing doctor %s: %+v", actor.ID, err)
		return nil, err
	}
	doctorName := actor.Email
	if doctor != nil {
		doctorName = doctor.FullName
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionPrescriptionIssue, entity.JSON{
		"prescription_id": prescription.ID.String(),
		"appointment_id":  prescription.AppointmentID.String(),
		"drug_count":      len(prescription.Drugs),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.dispatcher.Dispatch(service.NotificationEvent{
		UserID:  appointment.PatientID,
		Message: fmt.Sprintf("Dr. %s has issued you a prescription.", doctorName),
	})

	u.log.Infof("Prescription issued: id=%s, appointment=%s", prescription.ID, prescription.AppointmentID)
	return converter.PrescriptionToResponse(prescription), nil
}

// GetByAppointment returns the appointment's prescription; only its doctor
// or its patient may read it.
func (u *prescriptionUsecase) GetByAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.PrescriptionResponse, error) {
	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if appointment.DoctorID != actor.ID && appointment.PatientID != actor.ID {
		return nil, ErrNotAppointmentParticipant
	}

	prescription, err := u.prescriptionRepo.FindByAppointmentID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find prescription for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) ListForDoctor(ctx context.Context, actor entity.Actor) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByDoctorID(u.db.WithContext(ctx), actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for doctor %s: %+v", actor.ID, err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

func (u *prescriptionUsecase) ListForPatient(ctx context.Context, actor entity.Actor) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByPatientID(u.db.WithContext(ctx), actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for patient %s: %+v", actor.ID, err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}
