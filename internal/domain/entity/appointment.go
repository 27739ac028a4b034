package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending           AppointmentStatus = "pending"
	AppointmentStatusConfirmed         AppointmentStatus = "confirmed"
	AppointmentStatusCancelled         AppointmentStatus = "cancelled"
	AppointmentStatusCancelledByDoctor AppointmentStatus = "cancelled_by_doctor"
	AppointmentStatusCompleted         AppointmentStatus = "completed"
)

// ParseAppointmentStatus maps a raw string to a known status
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled,
		AppointmentStatusCancelledByDoctor, AppointmentStatusCompleted:
		return AppointmentStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether the status is an end state
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCancelled ||
		s == AppointmentStatusCancelledByDoctor ||
		s == AppointmentStatusCompleted
}

// IsCancelled reports whether the status frees the doctor's slot
func (s AppointmentStatus) IsCancelled() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCancelledByDoctor
}

// Appointment represents a booked consultation between a patient and a doctor
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ScheduledAt time.Time         `gorm:"not null" json:"scheduled_at"`
	Reason      string            `gorm:"type:text" json:"reason"`
	Status      AppointmentStatus `gorm:"type:varchar(30);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// CanTransitionTo reports whether the given role may move the appointment to
// target from its current status. Terminal states are immutable. Patients may
// only cancel; doctors may confirm, complete or cancel on their side.
func (a *Appointment) CanTransitionTo(target AppointmentStatus, role Role) bool {
	if a.Status.IsTerminal() {
		return false
	}

	switch role {
	case RolePatient:
		return target == AppointmentStatusCancelled
	case RoleDoctor:
		switch target {
		case AppointmentStatusConfirmed:
			return a.Status == AppointmentStatusPending
		case AppointmentStatusCompleted, AppointmentStatusCancelledByDoctor:
			return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
		}
	}
	return false
}

// IsCompleted checks if the appointment has been completed
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}
