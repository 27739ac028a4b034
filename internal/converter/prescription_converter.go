package converter

import (
	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
)

// DrugItemsFromRequests converts request drug entries to the entity list,
// preserving order.
func DrugItemsFromRequests(items []dto.DrugItemRequest) entity.DrugList {
	drugs := make(entity.DrugList, len(items))
	for i, item := range items {
		drugs[i] = entity.DrugItem{
			Name:         item.Name,
			Dosage:       item.Dosage,
			Instructions: item.Instructions,
		}
	}
	return drugs
}

// PrescriptionToResponse converts a Prescription entity to PrescriptionResponse DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	drugs := make([]dto.DrugItemResponse, len(prescription.Drugs))
	for i, drug := range prescription.Drugs {
		drugs[i] = dto.DrugItemResponse{
			Name:         drug.Name,
			Dosage:       drug.Dosage,
			Instructions: drug.Instructions,
		}
	}

	return &dto.PrescriptionResponse{
		ID:            prescription.ID,
		AppointmentID: prescription.AppointmentID,
		DoctorID:      prescription.DoctorID,
		Drugs:         drugs,
		IssuedAt:      prescription.IssuedAt,
	}
}

// PrescriptionsToResponses converts a slice of Prescription entities to DTOs
func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i, prescription := range prescriptions {
		resp := PrescriptionToResponse(&prescription)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
