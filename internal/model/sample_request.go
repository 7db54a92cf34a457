package model

import (
	"time"

	"github.com/google/uuid"
)

// SampleRequest payment status constants
const (
	SamplePending    = "pending"
	SamplePaid       = "paid"
	SampleProcessing = "processing"
	SampleShipped    = "shipped"
	SampleDelivered  = "delivered"
	SampleCancelled  = "cancelled"
	SampleFailed     = "failed"
	SampleRefunded   = "refunded"
)

// SampleRequest is a customer's ask for physical samples, gated by a
// shipping-fee payment. The fee is computed server-side from the
// destination country and never trusted from client input. The payment
// intent id carries a sparse unique index so webhook reconciliation can
// key on it.
type SampleRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RequestNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"request_number"`

	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CompanyName  string `gorm:"type:varchar(255)" json:"company_name"`
	Email        string `gorm:"type:varchar(255);not null" json:"email"`
	Phone        string `gorm:"type:varchar(50)" json:"phone"`

	ShippingAddress string `gorm:"type:text;not null" json:"shipping_address"`
	Country         string `gorm:"type:varchar(100);not null;index" json:"country"`

	SampleType string     `gorm:"type:varchar(50);not null" json:"sample_type"`
	ProductID  *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Notes      string     `gorm:"type:text" json:"notes"`

	ShippingFeeCents int64  `gorm:"not null" json:"shipping_fee_cents"`
	Currency         string `gorm:"type:varchar(10);not null" json:"currency"`

	PaymentStatus         string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	StripePaymentIntentID *string `gorm:"type:varchar(255);uniqueIndex" json:"stripe_payment_intent_id"`
	WiseTransferID        *string `gorm:"type:varchar(255)" json:"wise_transfer_id"`

	PaymentErrorCode    string `gorm:"type:varchar(100)" json:"payment_error_code"`
	PaymentErrorMessage string `gorm:"type:text" json:"payment_error_message"`

	ShippingTrackingLink string     `gorm:"type:text" json:"shipping_tracking_link"`
	ShippedAt            *time.Time `json:"shipped_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SampleStatuses is the closed set of sample payment/fulfilment states.
var SampleStatuses = []string{
	SamplePending, SamplePaid, SampleProcessing, SampleShipped,
	SampleDelivered, SampleCancelled, SampleFailed, SampleRefunded,
}
