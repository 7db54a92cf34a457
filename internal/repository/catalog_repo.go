package repository

import (
	"context"

	"hidetrade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository covers the storefront catalog: finished products,
// raw leathers, and their type taxonomies.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, typeID *uuid.UUID, activeOnly bool, page, limit int) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateRawLeather(ctx context.Context, rl *model.RawLeather) error
	FindRawLeatherByID(ctx context.Context, id uuid.UUID) (*model.RawLeather, error)
	ListRawLeathers(ctx context.Context, typeID *uuid.UUID, activeOnly bool, page, limit int) ([]model.RawLeather, int64, error)
	UpdateRawLeather(ctx context.Context, rl *model.RawLeather) error
	DeleteRawLeather(ctx context.Context, id uuid.UUID) error

	ListProductTypes(ctx context.Context) ([]model.ProductType, error)
	ListRawLeatherTypes(ctx context.Context) ([]model.RawLeatherType, error)
	CreateProductType(ctx context.Context, t *model.ProductType) error
	CreateRawLeatherType(ctx context.Context, t *model.RawLeatherType) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *catalogRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := GetDB(ctx, r.db).Preload("ProductType").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context, typeID *uuid.UUID, activeOnly bool, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db)
	build := func() *gorm.DB {
		q := db.Model(&model.Product{})
		if typeID != nil {
			q = q.Where("product_type_id = ?", *typeID)
		}
		if activeOnly {
			q = q.Where("is_active = ?", true)
		}
		return q
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := build().Preload("ProductType").Order("created_at desc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *catalogRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	return GetDB(ctx, r.db).Save(p).Error
}

func (r *catalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *catalogRepository) CreateRawLeather(ctx context.Context, rl *model.RawLeather) error {
	return GetDB(ctx, r.db).Create(rl).Error
}

func (r *catalogRepository) FindRawLeatherByID(ctx context.Context, id uuid.UUID) (*model.RawLeather, error) {
	var rl model.RawLeather
	if err := GetDB(ctx, r.db).Preload("RawLeatherType").First(&rl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rl, nil
}

func (r *catalogRepository) ListRawLeathers(ctx context.Context, typeID *uuid.UUID, activeOnly bool, page, limit int) ([]model.RawLeather, int64, error) {
	var leathers []model.RawLeather
	var total int64

	db := GetDB(ctx, r.db)
	build := func() *gorm.DB {
		q := db.Model(&model.RawLeather{})
		if typeID != nil {
			q = q.Where("raw_leather_type_id = ?", *typeID)
		}
		if activeOnly {
			q = q.Where("is_active = ?", true)
		}
		return q
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := build().Preload("RawLeatherType").Order("created_at desc").Offset(offset).Limit(limit).Find(&leathers).Error; err != nil {
		return nil, 0, err
	}
	return leathers, total, nil
}

func (r *catalogRepository) UpdateRawLeather(ctx context.Context, rl *model.RawLeather) error {
	return GetDB(ctx, r.db).Save(rl).Error
}

func (r *catalogRepository) DeleteRawLeather(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.RawLeather{}, "id = ?", id).Error
}

func (r *catalogRepository) ListProductTypes(ctx context.Context) ([]model.ProductType, error) {
	var types []model.ProductType
	if err := GetDB(ctx, r.db).Order("name asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *catalogRepository) ListRawLeatherTypes(ctx context.Context) ([]model.RawLeatherType, error) {
	var types []model.RawLeatherType
	if err := GetDB(ctx, r.db).Order("name asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *catalogRepository) CreateProductType(ctx context.Context, t *model.ProductType) error {
	return GetDB(ctx, r.db).Create(t).Error
}

func (r *catalogRepository) CreateRawLeatherType(ctx context.Context, t *model.RawLeatherType) error {
	return GetDB(ctx, r.db).Create(t).Error
}
