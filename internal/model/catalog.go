package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductType categorizes finished leather goods (bags, belts, wallets).
type ProductType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RawLeatherType categorizes raw material (full grain, top grain, suede).
type RawLeatherType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a finished leather good in the storefront catalog.
type Product struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string           `gorm:"type:varchar(255);not null" json:"name"`
	Description     string           `gorm:"type:text" json:"description"`
	ProductTypeID   *uuid.UUID       `gorm:"type:uuid;index" json:"product_type_id"`
	ProductType     *ProductType     `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	IndicativePrice *decimal.Decimal `gorm:"type:decimal(18,4)" json:"indicative_price"`
	PriceUnit       string           `gorm:"type:varchar(30)" json:"price_unit"`
	MinOrderQty     *decimal.Decimal `gorm:"type:decimal(18,4)" json:"min_order_qty"`
	ImageURL        string           `gorm:"type:text" json:"image_url"`
	IsActive        bool             `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// RawLeather is a raw-material listing in the storefront catalog.
type RawLeather struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string           `gorm:"type:varchar(255);not null" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	RawLeatherTypeID *uuid.UUID       `gorm:"type:uuid;index" json:"raw_leather_type_id"`
	RawLeatherType   *RawLeatherType  `gorm:"foreignKey:RawLeatherTypeID" json:"raw_leather_type,omitempty"`
	Origin           string           `gorm:"type:varchar(100)" json:"origin"`
	Thickness        string           `gorm:"type:varchar(50)" json:"thickness"`
	IndicativePrice  *decimal.Decimal `gorm:"type:decimal(18,4)" json:"indicative_price"`
	PriceUnit        string           `gorm:"type:varchar(30)" json:"price_unit"`
	ImageURL         string           `gorm:"type:text" json:"image_url"`
	IsActive         bool             `gorm:"default:true;index" json:"is_active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}
