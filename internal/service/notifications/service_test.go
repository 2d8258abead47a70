package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func TestService_ListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository(memory.NewStore())
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, &domain.Notification{UserID: 1, Message: "a", CreatedAt: now})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Notification{UserID: 1, Message: "b", CreatedAt: now.Add(time.Minute)})
	require.NoError(t, err)

	svc := NewService(repo, logger.NewNop())
	svc.timeProvider = fixedTime{t: now.Add(time.Hour)}

	list, err := svc.List(ctx, 1, 1, false)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.Unread)
	assert.Equal(t, "b", list.Notifications[0].Message)

	_, err = svc.List(ctx, 1, 2, false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.MarkRead(ctx, first.ID, 2)
	assert.ErrorIs(t, err, ErrAccessDenied)

	read, err := svc.MarkRead(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)

	svc.timeProvider = fixedTime{t: now.Add(2 * time.Hour)}
	again, err := svc.MarkRead(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, *read.ReadAt, *again.ReadAt)

	unread, err := svc.List(ctx, 1, 1, true)
	require.NoError(t, err)
	assert.Len(t, unread.Notifications, 1)

	_, err = svc.MarkRead(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
