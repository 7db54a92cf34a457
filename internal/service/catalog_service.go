package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"hidetrade/internal/media"
	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type ProductInput struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	ProductTypeID   string `json:"product_type_id"`
	IndicativePrice string `json:"indicative_price"`
	PriceUnit       string `json:"price_unit"`
	MinOrderQty     string `json:"min_order_qty"`
	Image           string `json:"image"` // base64 data URI, uploaded to the media host
	IsActive        *bool  `json:"is_active"`
}

type RawLeatherInput struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	RawLeatherTypeID string `json:"raw_leather_type_id"`
	Origin           string `json:"origin"`
	Thickness        string `json:"thickness"`
	IndicativePrice  string `json:"indicative_price"`
	PriceUnit        string `json:"price_unit"`
	Image            string `json:"image"`
	IsActive         *bool  `json:"is_active"`
}

type TypeInput struct {
	Name string `json:"name" binding:"required"`
}

// --- Interface ---

// CatalogService manages the storefront catalog: finished products, raw
// leathers, and their type taxonomies.
type CatalogService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, typeID string, activeOnly bool, page, limit int) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateRawLeather(ctx context.Context, input RawLeatherInput) (*model.RawLeather, error)
	GetRawLeather(ctx context.Context, id string) (*model.RawLeather, error)
	ListRawLeathers(ctx context.Context, typeID string, activeOnly bool, page, limit int) ([]model.RawLeather, int64, error)
	UpdateRawLeather(ctx context.Context, id string, input RawLeatherInput) (*model.RawLeather, error)
	DeleteRawLeather(ctx context.Context, id string) error

	ListProductTypes(ctx context.Context) ([]model.ProductType, error)
	ListRawLeatherTypes(ctx context.Context) ([]model.RawLeatherType, error)
	CreateProductType(ctx context.Context, input TypeInput) (*model.ProductType, error)
	CreateRawLeatherType(ctx context.Context, input TypeInput) (*model.RawLeatherType, error)
}

type catalogService struct {
	repo     repository.CatalogRepository
	uploader media.Uploader
}

func NewCatalogService(repo repository.CatalogRepository, uploader media.Uploader) CatalogService {
	return &catalogService{repo: repo, uploader: uploader}
}

// --- Implementation ---

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	p := model.Product{
		Name:        input.Name,
		Description: input.Description,
		PriceUnit:   input.PriceUnit,
		IsActive:    true,
	}
	if err := s.applyProductFields(ctx, &p, input); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NewValidation("id", "invalid product id")
	}
	p, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, typeID string, activeOnly bool, page, limit int) ([]model.Product, int64, error) {
	parsedType, err := parseOptionalUUID(typeID, "type_id")
	if err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListProducts(ctx, parsedType, activeOnly, page, limit)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*model.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Description = input.Description
	p.PriceUnit = input.PriceUnit
	if err := s.applyProductFields(ctx, p, input); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return apperr.NewValidation("id", "invalid product id")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *catalogService) applyProductFields(ctx context.Context, p *model.Product, input ProductInput) error {
	typeID, err := parseOptionalUUID(input.ProductTypeID, "product_type_id")
	if err != nil {
		return err
	}
	if typeID != nil {
		p.ProductTypeID = typeID
	}

	if input.IndicativePrice != "" {
		price, parseErr := decimal.NewFromString(input.IndicativePrice)
		if parseErr != nil {
			return apperr.NewValidation("indicative_price", "invalid price")
		}
		p.IndicativePrice = &price
	}
	if input.MinOrderQty != "" {
		qty, parseErr := decimal.NewFromString(input.MinOrderQty)
		if parseErr != nil {
			return apperr.NewValidation("min_order_qty", "invalid quantity")
		}
		p.MinOrderQty = &qty
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	if strings.HasPrefix(input.Image, "data:") {
		url, uploadErr := s.uploader.Upload(ctx, input.Image)
		if uploadErr != nil {
			// Catalog writes proceed without the image rather than failing.
			log.Printf("product %s: image upload failed: %v", p.Name, uploadErr)
		} else {
			p.ImageURL = url
		}
	}
	return nil
}

func (s *catalogService) CreateRawLeather(ctx context.Context, input RawLeatherInput) (*model.RawLeather, error) {
	rl := model.RawLeather{
		Name:        input.Name,
		Description: input.Description,
		Origin:      input.Origin,
		Thickness:   input.Thickness,
		PriceUnit:   input.PriceUnit,
		IsActive:    true,
	}
	if err := s.applyRawLeatherFields(ctx, &rl, input); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRawLeather(ctx, &rl); err != nil {
		return nil, fmt.Errorf("failed to create raw leather: %w", err)
	}
	return &rl, nil
}

func (s *catalogService) GetRawLeather(ctx context.Context, id string) (*model.RawLeather, error) {
	leatherID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NewValidation("id", "invalid raw leather id")
	}
	rl, err := s.repo.FindRawLeatherByID(ctx, leatherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: raw leather %s", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch raw leather: %w", err)
	}
	return rl, nil
}

func (s *catalogService) ListRawLeathers(ctx context.Context, typeID string, activeOnly bool, page, limit int) ([]model.RawLeather, int64, error) {
	parsedType, err := parseOptionalUUID(typeID, "type_id")
	if err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListRawLeathers(ctx, parsedType, activeOnly, page, limit)
}

func (s *catalogService) UpdateRawLeather(ctx context.Context, id string, input RawLeatherInput) (*model.RawLeather, error) {
	rl, err := s.GetRawLeather(ctx, id)
	if err != nil {
		return nil, err
	}

	rl.Name = input.Name
	rl.Description = input.Description
	rl.Origin = input.Origin
	rl.Thickness = input.Thickness
	rl.PriceUnit = input.PriceUnit
	if err := s.applyRawLeatherFields(ctx, rl, input); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRawLeather(ctx, rl); err != nil {
		return nil, fmt.Errorf("failed to update raw leather: %w", err)
	}
	return rl, nil
}

func (s *catalogService) DeleteRawLeather(ctx context.Context, id string) error {
	leatherID, err := uuid.Parse(id)
	if err != nil {
		return apperr.NewValidation("id", "invalid raw leather id")
	}
	if err := s.repo.DeleteRawLeather(ctx, leatherID); err != nil {
		return fmt.Errorf("failed to delete raw leather: %w", err)
	}
	return nil
}

func (s *catalogService) applyRawLeatherFields(ctx context.Context, rl *model.RawLeather, input RawLeatherInput) error {
	typeID, err := parseOptionalUUID(input.RawLeatherTypeID, "raw_leather_type_id")
	if err != nil {
		return err
	}
	if typeID != nil {
		rl.RawLeatherTypeID = typeID
	}

	if input.IndicativePrice != "" {
		price, parseErr := decimal.NewFromString(input.IndicativePrice)
		if parseErr != nil {
			return apperr.NewValidation("indicative_price", "invalid price")
		}
		rl.IndicativePrice = &price
	}
	if input.IsActive != nil {
		rl.IsActive = *input.IsActive
	}

	if strings.HasPrefix(input.Image, "data:") {
		url, uploadErr := s.uploader.Upload(ctx, input.Image)
		if uploadErr != nil {
			log.Printf("raw leather %s: image upload failed: %v", rl.Name, uploadErr)
		} else {
			rl.ImageURL = url
		}
	}
	return nil
}

func (s *catalogService) ListProductTypes(ctx context.Context) ([]model.ProductType, error) {
	return s.repo.ListProductTypes(ctx)
}

func (s *catalogService) ListRawLeatherTypes(ctx context.Context) ([]model.RawLeatherType, error) {
	return s.repo.ListRawLeatherTypes(ctx)
}

func (s *catalogService) CreateProductType(ctx context.Context, input TypeInput) (*model.ProductType, error) {
	t := model.ProductType{Name: input.Name}
	if err := s.repo.CreateProductType(ctx, &t); err != nil {
		return nil, fmt.Errorf("failed to create product type: %w", err)
	}
	return &t, nil
}

func (s *catalogService) CreateRawLeatherType(ctx context.Context, input TypeInput) (*model.RawLeatherType, error) {
	t := model.RawLeatherType{Name: input.Name}
	if err := s.repo.CreateRawLeatherType(ctx, &t); err != nil {
		return nil, fmt.Errorf("failed to create raw leather type: %w", err)
	}
	return &t, nil
}

func parseOptionalUUID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, apperr.NewValidation(field, "invalid id")
	}
	return &parsed, nil
}
