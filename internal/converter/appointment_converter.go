package converter

import (
	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		DoctorID:    appointment.DoctorID,
		PatientID:   appointment.PatientID,
		ScheduledAt: appointment.ScheduledAt,
		Reason:      appointment.Reason,
		Status:      string(appointment.Status),
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}

	// Include counterpart info if preloaded
	if appointment.Doctor != nil {
		response.Doctor = UserToResponse(appointment.Doctor)
	}
	if appointment.Patient != nil {
		response.Patient = UserToResponse(appointment.Patient)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
