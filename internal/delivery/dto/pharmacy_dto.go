package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type PlaceOrderRequest struct {
	PrescriptionID  uuid.UUID `json:"prescription_id" validate:"required"`
	DeliveryAddress string    `json:"delivery_address" validate:"required,min=5"`
}

type UpdateOrderStatusRequest struct {
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed"`
	OrderStatus   *string `json:"order_status,omitempty" validate:"omitempty,oneof=pending approved delivered cancelled"`
}

type CreateInventoryItemRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type UpdateInventoryItemRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

// Response DTOs

type DrugOrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	PrescriptionID  uuid.UUID       `json:"prescription_id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	DeliveryAddress string          `json:"delivery_address"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentStatus   string          `json:"payment_status"`
	OrderStatus     string          `json:"order_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type DrugOrderListResponse struct {
	Orders []DrugOrderResponse `json:"orders"`
	Total  int                 `json:"total"`
}

type InventoryItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InventoryListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Total int                     `json:"total"`
}
