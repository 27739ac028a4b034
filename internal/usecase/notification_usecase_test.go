package usecase

import (
	"context"
	"testing"

	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMineNotifications(t *testing.T) {
	db, _ := setupMockDB(t)

	userID := uuid.New()
	repo := &fakeNotificationRepo{notifications: []entity.Notification{
		{ID: 1, UserID: userID, Message: "Your appointment has been confirmed."},
		{ID: 2, UserID: uuid.New(), Message: "New appointment booked by Ann Smith."},
	}}

	uc := NewNotificationUsecase(db, testLogger(), repo)

	actor := entity.Actor{ID: userID, Role: entity.RolePatient}
	resp, err := uc.ListMine(context.Background(), actor)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Your appointment has been confirmed.", resp.Notifications[0].Message)
}

func TestMarkRead_NotFound(t *testing.T) {
	db, _ := setupMockDB(t)

	uc := NewNotificationUsecase(db, testLogger(), &fakeNotificationRepo{markReadRows: 0})

	actor := entity.Actor{ID: uuid.New(), Role: entity.RolePatient}
	err := uc.MarkRead(context.Background(), actor, 42)

	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkRead_Success(t *testing.T) {
	db, _ := setupMockDB(t)

	uc := NewNotificationUsecase(db, testLogger(), &fakeNotificationRepo{markReadRows: 1})

	actor := entity.Actor{ID: uuid.New(), Role: entity.RolePatient}
	err := uc.MarkRead(context.Background(), actor, 42)

	assert.NoError(t, err)
}
