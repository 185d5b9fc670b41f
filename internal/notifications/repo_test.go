package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  link TEXT,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, created time.Time) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      enums.NotificationTypeOrderAlert,
		Title:     "Payment received",
		Message:   "Your payment is confirmed.",
		CreatedAt: created,
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestRepositoryListPagination(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	older := seedNotification(t, db, userID, now.Add(-time.Hour))
	newer := seedNotification(t, db, userID, now)
	seedNotification(t, db, uuid.New(), now)

	rows, next, err := repo.List(context.Background(), listNotificationsParams{UserID: userID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, newer.ID, rows[0].ID)
	require.NotNil(t, next)

	rows, next, err = repo.List(context.Background(), listNotificationsParams{UserID: userID, Limit: 1, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, older.ID, rows[0].ID)
	assert.Nil(t, next)
}

func TestRepositoryListUnreadOnly(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	read := seedNotification(t, db, userID, now.Add(-time.Minute))
	readAt := now
	require.NoError(t, db.Model(read).UpdateColumn("read_at", readAt).Error)
	unread := seedNotification(t, db, userID, now)

	rows, _, err := repo.List(context.Background(), listNotificationsParams{UserID: userID, Limit: 10, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, unread.ID, rows[0].ID)
}

func TestRepositoryMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	notification := seedNotification(t, db, userID, time.Now().UTC())

	result, err := repo.MarkRead(context.Background(), userID, notification.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.True(t, result.Found)

	// Second mark finds the row but updates nothing.
	result, err = repo.MarkRead(context.Background(), userID, notification.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.True(t, result.Found)

	// Another user cannot read someone else's notification.
	result, err = repo.MarkRead(context.Background(), uuid.New(), notification.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestRepositoryMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	seedNotification(t, db, userID, now.Add(-time.Minute))
	seedNotification(t, db, userID, now)
	seedNotification(t, db, uuid.New(), now)

	count, err := repo.MarkAllRead(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.MarkAllRead(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Zero(t, count)
}
