package usecase

import (
	"context"
	"errors"

	"github.com/techsplot/smart-health-backend/internal/converter"
	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationUsecase interface {
	ListMine(ctx context.Context, actor entity.Actor) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, actor entity.Actor, notificationID int64) error
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(db *gorm.DB, log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
	}
}

func (u *notificationUsecase) ListMine(ctx context.Context, actor entity.Actor) (*dto.NotificationListResponse, error) {
	notifications, err := u.notificationRepo.FindByUserID(u.db.WithContext(ctx), actor.ID)
	if err != nil {
		u.log.Warnf("Failed to find notifications for user %s: %+v", actor.ID, err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         len(notifications),
	}, nil
}

// MarkRead flips the read flag for the actor's own notification. The
// user filter in the update means a foreign notification reads as absent.
func (u *notificationUsecase) MarkRead(ctx context.Context, actor entity.Actor, notificationID int64) error {
	affected, err := u.notificationRepo.MarkRead(u.db.WithContext(ctx), notificationID, actor.ID)
	if err != nil {
		u.log.Warnf("Failed to mark notification %d read: %+v", notificationID, err)
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
