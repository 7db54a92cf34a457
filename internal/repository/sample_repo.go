package repository

import (
	"context"

	"hidetrade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SampleRepository interface {
	Create(ctx context.Context, sample *model.SampleRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SampleRequest, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*model.SampleRequest, error)
	List(ctx context.Context, paymentStatus string, page, limit int) ([]model.SampleRequest, int64, error)
	Update(ctx context.Context, sample *model.SampleRequest) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type sampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) SampleRepository {
	return &sampleRepository{db: db}
}

func (r *sampleRepository) Create(ctx context.Context, sample *model.SampleRequest) error {
	return GetDB(ctx, r.db).Create(sample).Error
}

func (r *sampleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SampleRequest, error) {
	var sample model.SampleRequest
	if err := GetDB(ctx, r.db).First(&sample, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sample, nil
}

func (r *sampleRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*model.SampleRequest, error) {
	var sample model.SampleRequest
	if err := GetDB(ctx, r.db).First(&sample, "stripe_payment_intent_id = ?", intentID).Error; err != nil {
		return nil, err
	}
	return &sample, nil
}

func (r *sampleRepository) List(ctx context.Context, paymentStatus string, page, limit int) ([]model.SampleRequest, int64, error) {
	var samples []model.SampleRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.SampleRequest{})
	if paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Model(&model.SampleRequest{})
	if paymentStatus != "" {
		fetch = fetch.Where("payment_status = ?", paymentStatus)
	}
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&samples).Error; err != nil {
		return nil, 0, err
	}

	return samples, total, nil
}

func (r *sampleRepository) Update(ctx context.Context, sample *model.SampleRequest) error {
	return GetDB(ctx, r.db).Save(sample).Error
}

func (r *sampleRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.SampleRequest{}).Where("request_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
