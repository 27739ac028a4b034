package repository

import (
	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PharmacyInventoryRepository interface {
	Create(db *gorm.DB, item *entity.PharmacyInventory) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.PharmacyInventory, error)
	FindByName(db *gorm.DB, name string) (*entity.PharmacyInventory, error)
	FindAll(db *gorm.DB) ([]entity.PharmacyInventory, error)
	Update(db *gorm.DB, item *entity.PharmacyInventory) error
	Delete(db *gorm.DB, id uuid.UUID) error
	// ReserveUnit atomically decrements one unit of the named drug if at
	// least one is on hand. Returns affected rows: 1 = reserved, 0 = out
	// of stock or unknown drug.
	ReserveUnit(db *gorm.DB, name string) (int64, error)
}
