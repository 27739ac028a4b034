package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkRead_OwnNotification(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository()

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET`).
		WithArgs(true, int64(7), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.MarkRead(db, 7, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_ForeignNotificationUntouched(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository()

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET`).
		WithArgs(true, int64(7), userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := repo.MarkRead(db, 7, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
