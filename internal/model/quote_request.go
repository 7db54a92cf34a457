package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequest status constants
const (
	QuoteRequested  = "requested"
	QuoteApproved   = "approved"
	QuoteRejected   = "rejected"
	QuotePaid       = "paid"
	QuoteDispatched = "dispatched"
	QuoteCancelled  = "cancelled"
)

// Item category constants
const (
	ItemCategoryProduct    = "product"
	ItemCategoryRawLeather = "raw_leather"
	ItemCategoryCustom     = "custom"
)

// Payment term constants
const (
	Terms100Advance = "100_advance"
	Terms3070Split  = "30_70_split"
	TermsLC         = "lc"
)

// QuoteRequest is a customer's ask to buy a catalog item at volume.
// The invoice back-reference is set once, by invoice generation; at most
// one invoice may ever exist per quote request.
type QuoteRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RequestNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"request_number"`

	ItemID           *uuid.UUID `gorm:"type:uuid;index" json:"item_id"`
	ItemName         string     `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemTypeCategory string     `gorm:"type:varchar(20);not null;index" json:"item_type_category"` // product, raw_leather, custom

	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CompanyName  string `gorm:"type:varchar(255)" json:"company_name"`
	Email        string `gorm:"type:varchar(255);not null" json:"email"`
	Phone        string `gorm:"type:varchar(50)" json:"phone"`
	Country      string `gorm:"type:varchar(100);not null;index" json:"country"`
	Address      string `gorm:"type:text" json:"address"`

	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	QuantityUnit string          `gorm:"type:varchar(30);not null" json:"quantity_unit"` // e.g. "sq ft", "pieces"
	Notes        string          `gorm:"type:text" json:"notes"`

	Status        string `gorm:"type:varchar(20);not null;default:'requested';index" json:"status"`
	AdminComments string `gorm:"type:text" json:"admin_comments"`

	ProposedPricePerUnit *decimal.Decimal `gorm:"type:decimal(18,4)" json:"proposed_price_per_unit"`
	ProposedTotalPrice   *decimal.Decimal `gorm:"type:decimal(18,4)" json:"proposed_total_price"`

	PaymentMethod  string `gorm:"type:varchar(30)" json:"payment_method"`
	PaymentDetails string `gorm:"type:text" json:"payment_details"`

	// Letter-of-credit sub-object, only populated when payment terms are "lc".
	LCStatus string `gorm:"type:varchar(20)" json:"lc_status"`
	LCNumber string `gorm:"type:varchar(100)" json:"lc_number"`
	LCBank   string `gorm:"type:varchar(255)" json:"lc_bank"`

	InvoiceID *uuid.UUID `gorm:"type:uuid" json:"invoice_id"`

	ShippingTrackingLink string     `gorm:"type:text" json:"shipping_tracking_link"`
	DispatchedAt         *time.Time `json:"dispatched_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteStatuses is the closed set of quote request states.
var QuoteStatuses = []string{
	QuoteRequested, QuoteApproved, QuoteRejected,
	QuotePaid, QuoteDispatched, QuoteCancelled,
}
