package repository

import (
	"context"

	"hidetrade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	List(ctx context.Context, unreadOnly bool, page, limit int) ([]model.Message, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	return GetDB(ctx, r.db).Create(m).Error
}

func (r *messageRepository) List(ctx context.Context, unreadOnly bool, page, limit int) ([]model.Message, int64, error) {
	var messages []model.Message
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Message{})
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Model(&model.Message{})
	if unreadOnly {
		fetch = fetch.Where("read = ?", false)
	}
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Message{}).Where("id = ?", id).Update("read", true)
	return res.RowsAffected, res.Error
}
