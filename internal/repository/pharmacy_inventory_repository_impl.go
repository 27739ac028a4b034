package repository

import (
	"errors"

	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	domainRepo "github.com/techsplot/smart-health-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pharmacyInventoryRepository struct{}

func NewPharmacyInventoryRepository() domainRepo.PharmacyInventoryRepository {
	return &pharmacyInventoryRepository{}
}

func (r *pharmacyInventoryRepository) Create(db *gorm.DB, item *entity.PharmacyInventory) error {
	return db.Create(item).Error
}

func (r *pharmacyInventoryRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PharmacyInventory, error) {
	var item entity.PharmacyInventory
	err := db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *pharmacyInventoryRepository) FindByName(db *gorm.DB, name string) (*entity.PharmacyInventory, error) {
	var item entity.PharmacyInventory
	err := db.Where("name = ?", name).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *pharmacyInventoryRepository) FindAll(db *gorm.DB) ([]entity.PharmacyInventory, error) {
	var items []entity.PharmacyInventory
	err := db.Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pharmacyInventoryRepository) Update(db *gorm.DB, item *entity.PharmacyInventory) error {
	return db.Save(item).Error
}

func (r *pharmacyInventoryRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.PharmacyInventory{}).Error
}

// ReserveUnit decrements stock ONLY while at least one unit remains.
// Returns affected rows: 1 = reserved, 0 = out of stock (prevents the
// check-then-decrement race under concurrent orders).
func (r *pharmacyInventoryRepository) ReserveUnit(db *gorm.DB, name string) (int64, error) {
	result := db.Model(&entity.PharmacyInventory{}).
		Where("name = ? AND quantity >= 1", name).
		Update("quantity", gorm.Expr("quantity - 1"))
	return result.RowsAffected, result.Error
}
