package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice status constants
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// Invoice is an immutable billing document derived exactly once from an
// approved QuoteRequest. The unique index on quote_request_id is the
// storage-level guarantee against concurrent duplicate generation; core
// monetary fields are never recomputed after creation — only Status
// changes.
type Invoice struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber  string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"invoice_number"`
	QuoteRequestID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"quote_request_id"`

	IssueDate time.Time `gorm:"not null" json:"issue_date"`
	DueDate   time.Time `gorm:"not null" json:"due_date"` // issue date + 30 days, fixed policy

	// Customer snapshot, denormalized at generation time.
	CustomerName    string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerCompany string `gorm:"type:varchar(255)" json:"customer_company"`
	CustomerEmail   string `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerAddress string `gorm:"type:text" json:"customer_address"`
	CustomerCountry string `gorm:"type:varchar(100)" json:"customer_country"`

	// Vendor snapshot.
	VendorName    string `gorm:"type:varchar(255);not null" json:"vendor_name"`
	VendorAddress string `gorm:"type:text" json:"vendor_address"`
	VendorEmail   string `gorm:"type:varchar(255)" json:"vendor_email"`

	// Single line item.
	ItemName     string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	QuantityUnit string          `gorm:"type:varchar(30);not null" json:"quantity_unit"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	ItemTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"item_total"`

	Subtotal     decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxRate      *decimal.Decimal `gorm:"type:decimal(8,4)" json:"tax_rate"`
	TaxAmount    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	ShippingCost decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0" json:"shipping_cost"`
	TotalAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_amount"` // subtotal + tax + shipping

	PaymentTerms        string `gorm:"type:varchar(20);not null" json:"payment_terms"` // 100_advance, 30_70_split, lc
	PaymentInstructions string `gorm:"type:text" json:"payment_instructions"`
	Notes               string `gorm:"type:text" json:"notes"`

	Status string `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
