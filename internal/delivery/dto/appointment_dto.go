package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Reason      string    `json:"reason" validate:"required,min=3"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID     `json:"id"`
	DoctorID    uuid.UUID     `json:"doctor_id"`
	PatientID   uuid.UUID     `json:"patient_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Reason      string        `json:"reason"`
	Status      string        `json:"status"`
	Doctor      *UserResponse `json:"doctor,omitempty"`
	Patient     *UserResponse `json:"patient,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
