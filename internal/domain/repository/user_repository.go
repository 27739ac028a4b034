package repository

import (
	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByIDAndRole(db *gorm.DB, id uuid.UUID, role entity.Role) (*entity.User, error)
	FindByRole(db *gorm.DB, role entity.Role, specialization string) ([]entity.User, error)
	Update(db *gorm.DB, user *entity.User) error
}
