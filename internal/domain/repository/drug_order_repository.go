package repository

import (
	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DrugOrderRepository interface {
	Create(db *gorm.DB, order *entity.DrugOrder) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.DrugOrder, error)
	FindByPrescriptionID(db *gorm.DB, prescriptionID uuid.UUID) (*entity.DrugOrder, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.DrugOrder, error)
	FindAll(db *gorm.DB) ([]entity.DrugOrder, error)
	Update(db *gorm.DB, order *entity.DrugOrder) error
}
