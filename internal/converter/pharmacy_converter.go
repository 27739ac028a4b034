package converter

import (
	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
)

// DrugOrderToResponse converts a DrugOrder entity to DrugOrderResponse DTO
func DrugOrderToResponse(order *entity.DrugOrder) *dto.DrugOrderResponse {
	if order == nil {
		return nil
	}

	return &dto.DrugOrderResponse{
		ID:              order.ID,
		PrescriptionID:  order.PrescriptionID,
		PatientID:       order.PatientID,
		DeliveryAddress: order.DeliveryAddress,
		TotalAmount:     order.TotalAmount,
		PaymentStatus:   string(order.PaymentStatus),
		OrderStatus:     string(order.OrderStatus),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// DrugOrdersToResponses converts a slice of DrugOrder entities to DTOs
func DrugOrdersToResponses(orders []entity.DrugOrder) []dto.DrugOrderResponse {
	responses := make([]dto.DrugOrderResponse, len(orders))
	for i, order := range orders {
		resp := DrugOrderToResponse(&order)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// InventoryItemToResponse converts a PharmacyInventory entity to its DTO
func InventoryItemToResponse(item *entity.PharmacyInventory) *dto.InventoryItemResponse {
	if item == nil {
		return nil
	}

	return &dto.InventoryItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// InventoryItemsToResponses converts a slice of PharmacyInventory entities to DTOs
func InventoryItemsToResponses(items []entity.PharmacyInventory) []dto.InventoryItemResponse {
	responses := make([]dto.InventoryItemResponse, len(items))
	for i, item := range items {
		resp := InventoryItemToResponse(&item)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
