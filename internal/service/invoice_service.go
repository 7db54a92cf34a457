package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hidetrade/internal/config"
	"hidetrade/internal/mailer"
	"hidetrade/internal/model"
	"hidetrade/internal/pdf"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// dueDatePolicy is the fixed payment window granted on every invoice.
const dueDatePolicy = 30 * 24 * time.Hour

// --- DTOs ---

type GenerateInvoiceInput struct {
	ProposedPricePerUnit string `json:"proposed_price_per_unit" binding:"required"`
	PaymentTerms         string `json:"payment_terms" binding:"required,oneof=100_advance 30_70_split lc"`
	TaxRate              string `json:"tax_rate"`
	ShippingCost         string `json:"shipping_cost"`
	PaymentInstructions  string `json:"payment_instructions"`
	Notes                string `json:"notes"`
	LCNumber             string `json:"lc_number"`
	LCBank               string `json:"lc_bank"`
}

type InvoiceResponse struct {
	ID             string `json:"id"`
	InvoiceNumber  string `json:"invoice_number"`
	QuoteRequestID string `json:"quote_request_id"`
	IssueDate      string `json:"issue_date"`
	DueDate        string `json:"due_date"`

	CustomerName    string `json:"customer_name"`
	CustomerCompany string `json:"customer_company"`
	CustomerEmail   string `json:"customer_email"`

	ItemName     string `json:"item_name"`
	Quantity     string `json:"quantity"`
	QuantityUnit string `json:"quantity_unit"`
	UnitPrice    string `json:"unit_price"`
	ItemTotal    string `json:"item_total"`

	Subtotal     string  `json:"subtotal"`
	TaxRate      *string `json:"tax_rate"`
	TaxAmount    string  `json:"tax_amount"`
	ShippingCost string  `json:"shipping_cost"`
	TotalAmount  string  `json:"total_amount"`

	PaymentTerms string `json:"payment_terms"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// --- Interface ---

// InvoiceService derives an immutable invoice from an approved quote
// request and fires the delivery side effects.
type InvoiceService interface {
	GenerateInvoice(ctx context.Context, quoteRequestID string, input GenerateInvoiceInput) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, status string, page, limit int) ([]InvoiceResponse, int64, error)
	UpdateStatus(ctx context.Context, id string, status string) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	quoteRepo   repository.QuoteRepository
	renderer    pdf.Renderer
	mail        mailer.Mailer
	notifier    NotificationService
	vendor      config.VendorInfo
	storefront  string
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
	renderer pdf.Renderer,
	mail mailer.Mailer,
	notifier NotificationService,
	vendor config.VendorInfo,
	storefrontURL string,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		renderer:    renderer,
		mail:        mail,
		notifier:    notifier,
		vendor:      vendor,
		storefront:  storefrontURL,
	}
}

// --- Implementation ---

// GenerateInvoice checks its preconditions in order (quote exists, status
// is approved, no invoice yet), persists the invoice and the quote
// back-reference, then runs the delivery chain best-effort: PDF, email,
// notification. A failure past the two persistence writes is logged and
// swallowed — the invoice counts as generated once stored.
func (s *invoiceService) GenerateInvoice(ctx context.Context, quoteRequestID string, input GenerateInvoiceInput) (InvoiceResponse, error) {
	quoteID, err := uuid.Parse(quoteRequestID)
	if err != nil {
		return InvoiceResponse{}, apperr.NewValidation("quote_request_id", "invalid quote request id")
	}

	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("%w: quote request %s", apperr.ErrNotFound, quoteRequestID)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch quote request: %w", err)
	}

	if quote.Status != model.QuoteApproved {
		return InvoiceResponse{}, apperr.NewValidation("status", fmt.Sprintf("invoice requires an approved quote, current status is %q", quote.Status))
	}

	// Pre-check; the unique index on quote_request_id backstops the race
	// between two concurrent generate calls.
	if _, err := s.invoiceRepo.FindByQuoteRequestID(ctx, quoteID); err == nil {
		return InvoiceResponse{}, fmt.Errorf("%w: invoice already exists for quote %s", apperr.ErrConflict, quote.RequestNumber)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return InvoiceResponse{}, fmt.Errorf("failed to check existing invoice: %w", err)
	}

	unitPrice, err := decimal.NewFromString(input.ProposedPricePerUnit)
	if err != nil || unitPrice.LessThanOrEqual(decimal.Zero) {
		return InvoiceResponse{}, apperr.NewValidation("proposed_price_per_unit", "price must be a positive number")
	}

	var taxRate *decimal.Decimal
	taxAmount := decimal.Zero
	itemTotal := quote.Quantity.Mul(unitPrice)
	subtotal := itemTotal
	if input.TaxRate != "" {
		rate, parseErr := decimal.NewFromString(input.TaxRate)
		if parseErr != nil || rate.IsNegative() {
			return InvoiceResponse{}, apperr.NewValidation("tax_rate", "tax rate must be a non-negative number")
		}
		taxRate = &rate
		taxAmount = subtotal.Mul(rate)
	}

	shippingCost := decimal.Zero
	if input.ShippingCost != "" {
		cost, parseErr := decimal.NewFromString(input.ShippingCost)
		if parseErr != nil || cost.IsNegative() {
			return InvoiceResponse{}, apperr.NewValidation("shipping_cost", "shipping cost must be a non-negative number")
		}
		shippingCost = cost
	}

	totalAmount := subtotal.Add(taxAmount).Add(shippingCost)
	issueDate := time.Now()

	invoice := model.Invoice{
		InvoiceNumber:  generateInvoiceNumber(issueDate),
		QuoteRequestID: quote.ID,
		IssueDate:      issueDate,
		DueDate:        issueDate.Add(dueDatePolicy),

		CustomerName:    quote.CustomerName,
		CustomerCompany: quote.CompanyName,
		CustomerEmail:   quote.Email,
		CustomerAddress: quote.Address,
		CustomerCountry: quote.Country,

		VendorName:    s.vendor.Name,
		VendorAddress: s.vendor.Address,
		VendorEmail:   s.vendor.Email,

		ItemName:     quote.ItemName,
		Quantity:     quote.Quantity,
		QuantityUnit: quote.QuantityUnit,
		UnitPrice:    unitPrice,
		ItemTotal:    itemTotal,

		Subtotal:     subtotal,
		TaxRate:      taxRate,
		TaxAmount:    taxAmount,
		ShippingCost: shippingCost,
		TotalAmount:  totalAmount,

		PaymentTerms:        input.PaymentTerms,
		PaymentInstructions: input.PaymentInstructions,
		Notes:               input.Notes,
		Status:              model.InvoiceSent,
	}

	if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
		if isDuplicateKey(err) {
			return InvoiceResponse{}, fmt.Errorf("%w: invoice already exists for quote %s", apperr.ErrConflict, quote.RequestNumber)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	// Second write: quote back-reference plus pricing snapshot. Deliberately
	// not in one transaction with the invoice insert.
	quote.InvoiceID = &invoice.ID
	quote.ProposedPricePerUnit = &unitPrice
	quote.ProposedTotalPrice = &totalAmount
	quote.PaymentMethod = input.PaymentTerms
	quote.PaymentDetails = input.PaymentInstructions
	if input.PaymentTerms == model.TermsLC {
		quote.LCStatus = "initiated"
		quote.LCNumber = input.LCNumber
		quote.LCBank = input.LCBank
	}
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice %s created but quote update failed: %w", invoice.InvoiceNumber, err)
	}

	s.deliverInvoice(ctx, &invoice)

	return toInvoiceServiceResponse(invoice), nil
}

// deliverInvoice runs the best-effort side-effect chain: render PDF,
// email it with a payment link, record an admin notification. Failures
// are logged, never propagated.
func (s *invoiceService) deliverInvoice(ctx context.Context, invoice *model.Invoice) {
	var attachments []mailer.Attachment
	pdfBytes, err := s.renderer.RenderInvoice(ctx, toInvoiceDocument(*invoice))
	if err != nil {
		log.Printf("invoice %s: PDF rendering failed: %v", invoice.InvoiceNumber, err)
	} else {
		attachments = append(attachments, mailer.Attachment{
			Filename:    invoice.InvoiceNumber + ".pdf",
			Content:     pdfBytes,
			ContentType: "application/pdf",
		})
	}

	paymentLink := s.storefront + "/pay/" + invoice.ID.String()
	err = s.mail.Send(ctx, mailer.Message{
		To:      invoice.CustomerEmail,
		Subject: "Invoice " + invoice.InvoiceNumber + " from " + invoice.VendorName,
		Text: fmt.Sprintf(
			"Dear %s,\n\nPlease find attached invoice %s for %s %s of %s, total %s USD, due %s.\n\nPay online: %s\n\nRegards,\n%s",
			invoice.CustomerName, invoice.InvoiceNumber,
			invoice.Quantity.String(), invoice.QuantityUnit, invoice.ItemName,
			invoice.TotalAmount.StringFixed(2), invoice.DueDate.Format("2006-01-02"),
			paymentLink, invoice.VendorName,
		),
		Attachments: attachments,
	})
	if err != nil {
		log.Printf("invoice %s: email delivery failed: %v", invoice.InvoiceNumber, err)
	}

	if err := s.notifier.Create(ctx, CreateNotificationInput{
		Title:     "Invoice sent",
		Message:   fmt.Sprintf("Invoice %s (%s USD) sent to %s", invoice.InvoiceNumber, invoice.TotalAmount.StringFixed(2), invoice.CustomerEmail),
		Type:      model.NotifInvoiceSent,
		Link:      "/admin/invoices/" + invoice.ID.String(),
		RelatedID: &invoice.ID,
	}); err != nil {
		log.Printf("invoice %s: notification failed: %v", invoice.InvoiceNumber, err)
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, apperr.NewValidation("id", "invalid invoice id")
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("%w: invoice %s", apperr.ErrNotFound, id)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	return toInvoiceServiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, status string, page, limit int) ([]InvoiceResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceServiceResponse(inv))
	}
	return result, total, nil
}

// UpdateStatus is the only mutation an invoice supports after creation.
func (s *invoiceService) UpdateStatus(ctx context.Context, id string, status string) (InvoiceResponse, error) {
	switch status {
	case model.InvoiceDraft, model.InvoiceSent, model.InvoicePaid, model.InvoiceCancelled:
	default:
		return InvoiceResponse{}, apperr.NewValidation("status", "invalid invoice status")
	}

	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, apperr.NewValidation("id", "invalid invoice id")
	}

	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("%w: invoice %s", apperr.ErrNotFound, id)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, invoiceID, status); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to update invoice status: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceServiceResponse(*invoice), nil
}

// generateInvoiceNumber builds a timestamp + random suffix number.
// Collision probability is treated as negligible and not retried.
func generateInvoiceNumber(at time.Time) string {
	suffix := make([]byte, 2)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("INV-%d-%s", at.UnixMilli(), hex.EncodeToString(suffix))
}

// isDuplicateKey detects unique-constraint violations across the postgres
// and sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// --- Mapping ---

func toInvoiceServiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		QuoteRequestID: inv.QuoteRequestID.String(),
		IssueDate:      inv.IssueDate.Format("2006-01-02"),
		DueDate:        inv.DueDate.Format("2006-01-02"),

		CustomerName:    inv.CustomerName,
		CustomerCompany: inv.CustomerCompany,
		CustomerEmail:   inv.CustomerEmail,

		ItemName:     inv.ItemName,
		Quantity:     inv.Quantity.String(),
		QuantityUnit: inv.QuantityUnit,
		UnitPrice:    inv.UnitPrice.StringFixed(2),
		ItemTotal:    inv.ItemTotal.StringFixed(2),

		Subtotal:     inv.Subtotal.StringFixed(2),
		TaxAmount:    inv.TaxAmount.StringFixed(2),
		ShippingCost: inv.ShippingCost.StringFixed(2),
		TotalAmount:  inv.TotalAmount.StringFixed(2),

		PaymentTerms: inv.PaymentTerms,
		Status:       inv.Status,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.TaxRate != nil {
		s := inv.TaxRate.String()
		resp.TaxRate = &s
	}
	return resp
}

func toInvoiceDocument(inv model.Invoice) pdf.InvoiceDocument {
	return pdf.InvoiceDocument{
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),

		VendorName:    inv.VendorName,
		VendorAddress: inv.VendorAddress,
		VendorEmail:   inv.VendorEmail,

		BillToName:    inv.CustomerName,
		BillToCompany: inv.CustomerCompany,
		BillToAddress: inv.CustomerAddress,
		BillToEmail:   inv.CustomerEmail,

		ItemName:     inv.ItemName,
		Quantity:     inv.Quantity.String(),
		QuantityUnit: inv.QuantityUnit,
		UnitPrice:    inv.UnitPrice.StringFixed(2),
		ItemTotal:    inv.ItemTotal.StringFixed(2),

		Subtotal:     inv.Subtotal.StringFixed(2),
		TaxAmount:    inv.TaxAmount.StringFixed(2),
		ShippingCost: inv.ShippingCost.StringFixed(2),
		TotalAmount:  inv.TotalAmount.StringFixed(2),

		PaymentTerms:        inv.PaymentTerms,
		PaymentInstructions: inv.PaymentInstructions,
		Notes:               inv.Notes,
	}
}
