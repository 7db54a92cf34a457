package repository

import (
	"context"
	"time"

	"hidetrade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, unreadOnly bool, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return GetDB(ctx, r.db).Create(n).Error
}

func (r *notificationRepository) List(ctx context.Context, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Notification{})
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Model(&model.Notification{})
	if unreadOnly {
		fetch = fetch.Where("read = ?", false)
	}
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Notification{}).Where("id = ?", id).Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Notification{}).Where("read = ?", false).Update("read", true)
	return res.RowsAffected, res.Error
}

// DeleteOlderThan removes notifications created strictly before the cutoff
// and reports how many were removed. Safe to re-run.
func (r *notificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Where("created_at < ?", cutoff).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}
