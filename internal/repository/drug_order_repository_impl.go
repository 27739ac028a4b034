package repository

import (
	"errors"

	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	domainRepo "github.com/techsplot/smart-health-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type drugOrderRepository struct{}

func NewDrugOrderRepository() domainRepo.DrugOrderRepository {
	return &drugOrderRepository{}
}

func (r *drugOrderRepository) Create(db *gorm.DB, order *entity.DrugOrder) error {
	return db.Create(order).Error
}

func (r *drugOrderRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.DrugOrder, error) {
	var order entity.DrugOrder
	err := db.Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *drugOrderRepository) FindByPrescriptionID(db *gorm.DB, prescriptionID uuid.UUID) (*entity.DrugOrder, error) {
	var order entity.DrugOrder
	err := db.Where("prescription_id = ?", prescriptionID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *drugOrderRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.DrugOrder, error) {
	var orders []entity.DrugOrder
	err := db.Preload("Prescription").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *drugOrderRepository) FindAll(db *gorm.DB) ([]entity.DrugOrder, error) {
	var orders []entity.DrugOrder
	err := db.Preload("Prescription").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *drugOrderRepository) Update(db *gorm.DB, order *entity.DrugOrder) error {
	return db.Save(order).Error
}
