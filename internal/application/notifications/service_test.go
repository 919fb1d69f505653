package notifications

import (
	"context"
	"testing"

	"roomrento-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestListAndMarkRead(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Notification{}))
	s := &Service{DB: db}
	ctx := context.Background()
	user := uuid.New()

	first := domain.Notification{UserID: user, Kind: domain.NotifyListingCreated, Message: "live"}
	second := domain.Notification{UserID: user, Kind: domain.NotifyBookingRequested, Message: "request"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&domain.Notification{UserID: uuid.New(), Kind: "x", Message: "other"}).Error)

	all, err := s.List(ctx, user, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.MarkRead(ctx, user, first.ID))
	unread, err := s.List(ctx, user, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	assert.ErrorIs(t, s.MarkRead(ctx, uuid.New(), second.ID), ErrNotificationNotFound)
	assert.ErrorIs(t, s.MarkRead(ctx, user, uuid.New()), ErrNotificationNotFound)
}
