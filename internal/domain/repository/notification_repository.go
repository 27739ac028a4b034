package repository

import (
	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Notification, error)
	MarkRead(db *gorm.DB, id int64, userID uuid.UUID) (int64, error)
}
