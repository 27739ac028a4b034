package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type DrugItemRequest struct {
	Name         string `json:"name" validate:"required,min=1"`
	Dosage       string `json:"dosage" validate:"required,min=1"`
	Instructions string `json:"instructions,omitempty"`
}

type IssuePrescriptionRequest struct {
	AppointmentID uuid.UUID         `json:"appointment_id" validate:"required"`
	Drugs         []DrugItemRequest `json:"drugs" validate:"required,min=1,dive"`
}

// Response DTOs

type DrugItemResponse struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions,omitempty"`
}

type PrescriptionResponse struct {
	ID            uuid.UUID          `json:"id"`
	AppointmentID uuid.UUID          `json:"appointment_id"`
	DoctorID      uuid.UUID          `json:"doctor_id"`
	Drugs         []DrugItemResponse `json:"drugs"`
	IssuedAt      time.Time          `json:"issued_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}
