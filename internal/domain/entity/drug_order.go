package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of a drug order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ParsePaymentStatus maps a raw string to a known payment status
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return PaymentStatus(s), true
	}
	return "", false
}

// OrderStatus represents the fulfillment state of a drug order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus maps a raw string to a known order status
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusApproved, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// DrugOrder represents a pharmacy order placed against a prescription.
// At most one order exists per prescription.
type DrugOrder struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PrescriptionID  uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"prescription_id"`
	PatientID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	OrderStatus     OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"order_status"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Prescription *Prescription `gorm:"foreignKey:PrescriptionID" json:"prescription,omitempty"`
	Patient      *User         `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (DrugOrder) TableName() string {
	return "drug_orders"
}
