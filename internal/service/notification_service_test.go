package service

import (
	"context"
	"testing"
	"time"

	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationFixture(t *testing.T) (NotificationService, *gorm.DB) {
	db := newTestDB(t)
	return NewNotificationService(repository.NewNotificationRepository(db), nil), db
}

type recordingBroadcaster struct {
	payloads [][]byte
}

func (b *recordingBroadcaster) Push(payload []byte) {
	b.payloads = append(b.payloads, payload)
}

func TestCreateNotificationBroadcasts(t *testing.T) {
	db := newTestDB(t)
	broadcaster := &recordingBroadcaster{}
	svc := NewNotificationService(repository.NewNotificationRepository(db), broadcaster)

	err := svc.Create(context.Background(), CreateNotificationInput{
		Title:   "New quote request",
		Message: "Marco Ruiz requested a quote",
		Type:    model.NotifNewQuoteRequest,
	})
	require.NoError(t, err)

	require.Len(t, broadcaster.payloads, 1)
	assert.Contains(t, string(broadcaster.payloads[0]), "New quote request")
}

func TestCreateNotificationValidates(t *testing.T) {
	svc, _ := newNotificationFixture(t)

	err := svc.Create(context.Background(), CreateNotificationInput{Title: "no message or type"})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMarkReadAndMarkAllRead(t *testing.T) {
	svc, db := newNotificationFixture(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(context.Background(), CreateNotificationInput{
			Title:   "Invoice sent",
			Message: "Invoice went out",
			Type:    model.NotifInvoiceSent,
		}))
	}

	var first model.Notification
	require.NoError(t, db.First(&first).Error)

	require.NoError(t, svc.MarkRead(context.Background(), first.ID.String()))

	unread, total, err := svc.List(context.Background(), true, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, unread, 2)

	affected, err := svc.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	_, total, err = svc.List(context.Background(), true, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMarkReadUnknownID(t *testing.T) {
	svc, _ := newNotificationFixture(t)

	err := svc.MarkRead(context.Background(), "5b8d2f1a-0000-4000-8000-000000000000")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.MarkRead(context.Background(), "garbage")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCleanupDeletesOnlyExpired(t *testing.T) {
	svc, db := newNotificationFixture(t)

	ages := []time.Duration{
		0,
		6 * 24 * time.Hour,
		// Right at the retention boundary: the cutoff is strict, so an
		// entry this old must survive. The minute of slack keeps it
		// inside the window while the assertions run.
		7*24*time.Hour - time.Minute,
		8 * 24 * time.Hour,
		30 * 24 * time.Hour,
	}
	for _, age := range ages {
		n := model.Notification{
			Title:   "aging entry",
			Message: "created in the past",
			Type:    model.NotifQuoteStatus,
		}
		require.NoError(t, db.Create(&n).Error)
		// Backdate past the gorm-managed timestamp.
		require.NoError(t, db.Model(&model.Notification{}).
			Where("id = ?", n.ID).
			Update("created_at", time.Now().Add(-age)).Error)
	}

	deleted, err := svc.Cleanup(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	var remaining int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&remaining).Error)
	assert.EqualValues(t, 3, remaining)

	// Re-running is a harmless no-op.
	deleted, err = svc.Cleanup(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
