package entity

import (
	"time"

	"github.com/google/uuid"
)

// PharmacyInventory represents the on-hand quantity of a single drug
type PharmacyInventory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PharmacyInventory) TableName() string {
	return "pharmacy_inventory"
}

// InStock checks if at least one unit is available
func (p *PharmacyInventory) InStock() bool {
	return p.Quantity >= 1
}
