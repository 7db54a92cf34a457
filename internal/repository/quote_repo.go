package repository

import (
	"context"

	"hidetrade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteListFilter narrows and orders the quote request listing.
type QuoteListFilter struct {
	Status   string
	Country  string
	Category string
	Search   string // free text over customer name, company, item name, request number, exact id
	OrderBy  string // already validated against the sort allow-list
	Page     int
	Limit    int
}

type QuoteRepository interface {
	Create(ctx context.Context, quote *model.QuoteRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.QuoteRequest, error)
	List(ctx context.Context, filter QuoteListFilter) ([]model.QuoteRequest, int64, error)
	Update(ctx context.Context, quote *model.QuoteRequest) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *model.QuoteRequest) error {
	return GetDB(ctx, r.db).Create(quote).Error
}

func (r *quoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.QuoteRequest, error) {
	var quote model.QuoteRequest
	if err := GetDB(ctx, r.db).First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) List(ctx context.Context, filter QuoteListFilter) ([]model.QuoteRequest, int64, error) {
	var quotes []model.QuoteRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.QuoteRequest{})
	query = applyQuoteFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at desc"
	}

	offset := (filter.Page - 1) * filter.Limit
	fetch := applyQuoteFilter(db.Model(&model.QuoteRequest{}), filter)
	if err := fetch.Order(orderBy).Offset(offset).Limit(filter.Limit).Find(&quotes).Error; err != nil {
		return nil, 0, err
	}

	return quotes, total, nil
}

func applyQuoteFilter(query *gorm.DB, filter QuoteListFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.Category != "" {
		query = query.Where("item_type_category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		if id, err := uuid.Parse(filter.Search); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where(
				"customer_name LIKE ? OR company_name LIKE ? OR item_name LIKE ? OR request_number LIKE ?",
				pattern, pattern, pattern, pattern,
			)
		}
	}
	return query
}

func (r *quoteRepository) Update(ctx context.Context, quote *model.QuoteRequest) error {
	return GetDB(ctx, r.db).Save(quote).Error
}

func (r *quoteRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.QuoteRequest{}).Where("request_number LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
