package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification type constants — closed tag set.
const (
	NotifNewQuoteRequest  = "new_quote_request"
	NotifQuoteStatus      = "quote_status"
	NotifInvoiceSent      = "invoice_sent"
	NotifPaymentConfirmed = "payment_confirmed"
	NotifPaymentFailed    = "payment_failed"
	NotifNewSampleRequest = "new_sample_request"
	NotifNewMessage       = "new_message"
)

// Notification is an internal admin-facing event record created as a side
// effect of lifecycle transitions. RelatedID is a weak reference to the
// entity that caused it, not an ownership relation. Rows older than the
// retention window are deleted in bulk by the scheduled cleanup.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Type      string     `gorm:"type:varchar(30);not null;index" json:"type"`
	Link      string     `gorm:"type:text" json:"link"`
	RelatedID *uuid.UUID `gorm:"type:uuid" json:"related_id"`
	Read      bool       `gorm:"not null;default:false;index" json:"read"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
