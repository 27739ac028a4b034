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
	ErrDoctorNotFound             = errors.New("doctor not found")
	ErrAppointmentNotFound        = errors.New("appointment not found")
	ErrSlotUnavailable            = errors.New("doctor already has an appointment at that time")
	ErrNotAppointmentParticipant  = errors.New("appointment does not belong to you")
	ErrInvalidAppointmentStatus   = errors.New("unknown appointment status")
	ErrInvalidStatusTransition    = errors.New("status transition not allowed")
	ErrAppointmentHasPrescription = errors.New("appointment has an issued prescription")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	CancelByDoctor(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) error
	ListForPatient(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error)
	ListForDoctor(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	userRepo         repository.UserRepository
	prescriptionRepo repository.PrescriptionRepository
	audit            service.AuditService
	dispatcher       *service.NotificationDispatcher
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	prescriptionRepo repository.PrescriptionRepository,
	audit service.AuditService,
	dispatcher *service.NotificationDispatcher,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		userRepo:         userRepo,
		prescriptionRepo: prescriptionRepo,
		audit:            audit,
		dispatcher:       dispatcher,
	}
}

// Book creates a pending appointment for the acting patient.
//
// Flow:
// 1. Resolve the doctor account (role-checked)
// 2. Check the slot is free of non-cancelled appointments
// 3. Insert; the partial unique index on (doctor_id, scheduled_at) is the
//    backstop for concurrent bookings that pass the check together
// 4. Notify the doctor after commit
func (u *appointmentUsecase) Book(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.userRepo.FindByIDAndRole(tx, req.DoctorID, entity.RoleDoctor)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	existing, err := u.appointmentRepo.FindActiveByDoctorAndTime(tx, req.DoctorID, req.ScheduledAt)
	if err != nil {
		u.log.Warnf("Failed to check doctor slot: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotUnavailable
	}

	appointment := &entity.Appointment{
		DoctorID:    req.DoctorID,
		PatientID:   actor.ID,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
		Status:      entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "doctor_slot") {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	patient, err := u.userRepo.FindByID(tx, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to load booking patient %s: %+v", actor.ID, err)
		return nil, err
	}
	patientName := actor.Email
	if patient != nil {
		patientName = patient.FullName
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionAppointmentBook, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      appointment.DoctorID.String(),
		"scheduled_at":   appointment.ScheduledAt,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.dispatcher.Dispatch(service.NotificationEvent{
		UserID:  appointment.DoctorID,
		Message: fmt.Sprintf("New appointment booked by %s.", patientName),
	})

	u.log.Infof("Appointment booked: id=%s, doctor=%s, at=%s", appointment.ID, appointment.DoctorID, appointment.ScheduledAt)
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateStatus applies a status transition on behalf of either participant.
// Patients may only cancel; doctors follow the transition whitelist.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	newStatus, ok := entity.ParseAppointmentStatus(req.Status)
	if !ok {
		return nil, ErrInvalidAppointmentStatus
	}
	return u.transition(ctx, actor, appointmentID, newStatus)
}

// CancelByDoctor moves the appointment to cancelled_by_doctor
func (u *appointmentUsecase) CancelByDoctor(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, actor, appointmentID, entity.AppointmentStatusCancelledByDoctor)
}

// Complete marks the appointment as completed
func (u *appointmentUsecase) Complete(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, actor, appointmentID, entity.AppointmentStatusCompleted)
}

func (u *appointmentUsecase) transition(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, newStatus entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	switch actor.Role {
	case entity.RoleDoctor:
		if appointment.DoctorID != actor.ID {
			return nil, ErrNotAppointmentParticipant
		}
	case entity.RolePatient:
		if appointment.PatientID != actor.ID {
			return nil, ErrNotAppointmentParticipant
		}
	default:
		return nil, ErrNotAppointmentParticipant
	}

	if !appointment.CanTransitionTo(newStatus, actor.Role) {
		return nil, ErrInvalidStatusTransition
	}

	if err := u.appointmentRepo.UpdateStatus(tx, appointmentID, newStatus); err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}
	previousStatus := appointment.Status
	appointment.Status = newStatus

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionAppointmentStatus, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"from":           string(previousStatus),
		"to":             string(newStatus),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// The counterpart learns about the transition, not the actor
	if event, ok := u.transitionEvent(appointment, actor); ok {
		u.dispatcher.Dispatch(event)
	}

	u.log.Infof("Appointment status updated: id=%s, %s -> %s", appointment.ID, previousStatus, newStatus)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) transitionEvent(appointment *entity.Appointment, actor entity.Actor) (service.NotificationEvent, bool) {
	var recipient uuid.UUID
	if actor.ID == appointment.DoctorID {
		recipient = appointment.PatientID
	} else {
		recipient = appointment.DoctorID
	}

	var message string
	switch appointment.Status {
	case entity.AppointmentStatusConfirmed:
		message = "Your appointment has been confirmed."
	case entity.AppointmentStatusCompleted:
		message = "Your appointment has been marked as completed."
	case entity.AppointmentStatusCancelled:
		message = "An appointment has been cancelled by the patient."
	case entity.AppointmentStatusCancelledByDoctor:
		message = "Your appointment has been cancelled by the doctor."
	default:
		return service.NotificationEvent{}, false
	}

	return service.NotificationEvent{UserID: recipient, Message: message}, true
}

// Delete physically removes the patient's own appointment. Refused when a
// prescription already references it; the FK keeps the store honest.
func (u *appointmentUsecase) Delete(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if !actor.Is(entity.RolePatient) || appointment.PatientID != actor.ID {
		return ErrNotAppointmentParticipant
	}

	prescription, err := u.prescriptionRepo.FindByAppointmentID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to check appointment prescription: %+v", err)
		return err
	}
	if prescription != nil {
		return ErrAppointmentHasPrescription
	}

	if err := u.appointmentRepo.Delete(tx, appointmentID); err != nil {
		if isForeignKeyError(err, "appointment") {
			return ErrAppointmentHasPrescription
		}
		u.log.Warnf("Failed to delete appointment: %+v", err)
		return err
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionAppointmentDelete, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      appointment.DoctorID.String(),
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *appointmentUsecase) ListForPatient(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", actor.ID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) ListForDoctor(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", actor.ID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
