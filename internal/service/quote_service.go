package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateQuoteRequestInput struct {
	ItemID           string `json:"item_id"`
	ItemName         string `json:"item_name" binding:"required"`
	ItemTypeCategory string `json:"item_type_category" binding:"required,oneof=product raw_leather custom"`
	CustomerName     string `json:"customer_name" binding:"required"`
	CompanyName      string `json:"company_name"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Country          string `json:"country" binding:"required"`
	Address          string `json:"address"`
	Quantity         string `json:"quantity" binding:"required"`
	QuantityUnit     string `json:"quantity_unit" binding:"required"`
	Notes            string `json:"notes"`
}

// UpdateQuoteRequestInput is the admin mutation surface: status, comments,
// pricing, and shipment tracking. Any status from the closed set may be
// written from any prior status — no transition table is enforced.
type UpdateQuoteRequestInput struct {
	Status               *string `json:"status" binding:"omitempty,oneof=requested approved rejected paid dispatched cancelled"`
	AdminComments        *string `json:"admin_comments"`
	ProposedPricePerUnit *string `json:"proposed_price_per_unit"`
	ShippingTrackingLink *string `json:"shipping_tracking_link"`
}

type QuoteListFilter struct {
	Status   string
	Country  string
	Category string
	Search   string
	OrderBy  string
	Page     int
	Limit    int
}

type QuoteRequestResponse struct {
	ID               string  `json:"id"`
	RequestNumber    string  `json:"request_number"`
	ItemID           *string `json:"item_id"`
	ItemName         string  `json:"item_name"`
	ItemTypeCategory string  `json:"item_type_category"`
	CustomerName     string  `json:"customer_name"`
	CompanyName      string  `json:"company_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Country          string  `json:"country"`
	Address          string  `json:"address"`
	Quantity         string  `json:"quantity"`
	QuantityUnit     string  `json:"quantity_unit"`
	Notes            string  `json:"notes"`
	Status           string  `json:"status"`
	AdminComments    string  `json:"admin_comments"`

	ProposedPricePerUnit *string `json:"proposed_price_per_unit"`
	ProposedTotalPrice   *string `json:"proposed_total_price"`
	PaymentMethod        string  `json:"payment_method"`
	PaymentDetails       string  `json:"payment_details"`
	LCStatus             string  `json:"lc_status,omitempty"`

	InvoiceID            *string `json:"invoice_id"`
	ShippingTrackingLink string  `json:"shipping_tracking_link"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// quoteSortColumns is the allow-listed sortable field set. Unknown
// sort_by values fall back to created_at desc.
var quoteSortColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"status":        "status",
	"quantity":      "quantity",
	"customer_name": "customer_name",
}

// QuoteSortColumns exposes the allow-list to the handler layer.
func QuoteSortColumns() map[string]string {
	return quoteSortColumns
}

// --- Interface ---

// QuoteService owns the quote request lifecycle:
// requested → approved → paid → dispatched, or rejected/cancelled.
type QuoteService interface {
	CreateQuoteRequest(ctx context.Context, input CreateQuoteRequestInput) (QuoteRequestResponse, error)
	GetQuoteRequest(ctx context.Context, id string) (QuoteRequestResponse, error)
	ListQuoteRequests(ctx context.Context, filter QuoteListFilter) ([]QuoteRequestResponse, int64, error)
	UpdateQuoteRequest(ctx context.Context, id string, input UpdateQuoteRequestInput) (QuoteRequestResponse, error)
}

type quoteService struct {
	quoteRepo   repository.QuoteRepository
	catalogRepo repository.CatalogRepository
	notifier    NotificationService
}

func NewQuoteService(quoteRepo repository.QuoteRepository, catalogRepo repository.CatalogRepository, notifier NotificationService) QuoteService {
	return &quoteService{quoteRepo: quoteRepo, catalogRepo: catalogRepo, notifier: notifier}
}

// --- Implementation ---

func (s *quoteService) CreateQuoteRequest(ctx context.Context, input CreateQuoteRequestInput) (QuoteRequestResponse, error) {
	quantity, err := decimal.NewFromString(input.Quantity)
	if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
		return QuoteRequestResponse{}, apperr.NewValidation("quantity", "quantity must be a positive number")
	}

	itemName := input.ItemName
	var itemID *uuid.UUID
	if input.ItemID != "" {
		parsed, parseErr := uuid.Parse(input.ItemID)
		if parseErr != nil {
			return QuoteRequestResponse{}, apperr.NewValidation("item_id", "invalid item id")
		}
		itemID = &parsed

		// When the request references a catalog entry, its current name
		// wins over whatever the client sent.
		resolved, resolveErr := s.resolveItemName(ctx, input.ItemTypeCategory, parsed)
		if resolveErr != nil {
			return QuoteRequestResponse{}, resolveErr
		}
		if resolved != "" {
			itemName = resolved
		}
	}

	requestNumber, err := s.generateRequestNumber(ctx)
	if err != nil {
		return QuoteRequestResponse{}, fmt.Errorf("failed to generate request number: %w", err)
	}

	quote := model.QuoteRequest{
		RequestNumber:    requestNumber,
		ItemID:           itemID,
		ItemName:         itemName,
		ItemTypeCategory: input.ItemTypeCategory,
		CustomerName:     input.CustomerName,
		CompanyName:      input.CompanyName,
		Email:            input.Email,
		Phone:            input.Phone,
		Country:          input.Country,
		Address:          input.Address,
		Quantity:         quantity,
		QuantityUnit:     input.QuantityUnit,
		Notes:            input.Notes,
		Status:           model.QuoteRequested,
	}

	if err := s.quoteRepo.Create(ctx, &quote); err != nil {
		return QuoteRequestResponse{}, fmt.Errorf("failed to create quote request: %w", err)
	}

	// Best-effort admin notification; quote creation already succeeded.
	if err := s.notifier.Create(ctx, CreateNotificationInput{
		Title:     "New quote request",
		Message:   fmt.Sprintf("%s requested a quote for %s (%s %s)", quote.CustomerName, quote.ItemName, quote.Quantity, quote.QuantityUnit),
		Type:      model.NotifNewQuoteRequest,
		Link:      "/admin/quote-requests/" + quote.ID.String(),
		RelatedID: &quote.ID,
	}); err != nil {
		log.Printf("quote %s: notification failed: %v", quote.RequestNumber, err)
	}

	return toQuoteResponse(quote), nil
}

func (s *quoteService) GetQuoteRequest(ctx context.Context, id string) (QuoteRequestResponse, error) {
	quoteID, err := uuid.Parse(id)
	if err != nil {
		return QuoteRequestResponse{}, apperr.NewValidation("id", "invalid quote request id")
	}

	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuoteRequestResponse{}, fmt.Errorf("%w: quote request %s", apperr.ErrNotFound, id)
		}
		return QuoteRequestResponse{}, fmt.Errorf("failed to fetch quote request: %w", err)
	}

	return toQuoteResponse(*quote), nil
}

func (s *quoteService) ListQuoteRequests(ctx context.Context, filter QuoteListFilter) ([]QuoteRequestResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	quotes, total, err := s.quoteRepo.List(ctx, repository.QuoteListFilter{
		Status:   filter.Status,
		Country:  filter.Country,
		Category: filter.Category,
		Search:   filter.Search,
		OrderBy:  filter.OrderBy,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch quote requests: %w", err)
	}

	result := make([]QuoteRequestResponse, 0, len(quotes))
	for _, q := range quotes {
		result = append(result, toQuoteResponse(q))
	}
	return result, total, nil
}

func (s *quoteService) UpdateQuoteRequest(ctx context.Context, id string, input UpdateQuoteRequestInput) (QuoteRequestResponse, error) {
	quoteID, err := uuid.Parse(id)
	if err != nil {
		return QuoteRequestResponse{}, apperr.NewValidation("id", "invalid quote request id")
	}

	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuoteRequestResponse{}, fmt.Errorf("%w: quote request %s", apperr.ErrNotFound, id)
		}
		return QuoteRequestResponse{}, fmt.Errorf("failed to fetch quote request: %w", err)
	}

	statusChanged := false
	if input.Status != nil && *input.Status != quote.Status {
		quote.Status = *input.Status
		statusChanged = true
		if *input.Status == model.QuoteDispatched {
			now := time.Now()
			quote.DispatchedAt = &now
		}
	}
	if input.AdminComments != nil {
		quote.AdminComments = *input.AdminComments
	}
	if input.ProposedPricePerUnit != nil {
		price, parseErr := decimal.NewFromString(*input.ProposedPricePerUnit)
		if parseErr != nil || price.LessThanOrEqual(decimal.Zero) {
			return QuoteRequestResponse{}, apperr.NewValidation("proposed_price_per_unit", "price must be a positive number")
		}
		total := quote.Quantity.Mul(price)
		quote.ProposedPricePerUnit = &price
		quote.ProposedTotalPrice = &total
	}
	if input.ShippingTrackingLink != nil {
		quote.ShippingTrackingLink = *input.ShippingTrackingLink
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return QuoteRequestResponse{}, fmt.Errorf("failed to update quote request: %w", err)
	}

	if statusChanged {
		if err := s.notifier.Create(ctx, CreateNotificationInput{
			Title:     "Quote request " + quote.Status,
			Message:   fmt.Sprintf("Quote %s moved to %s", quote.RequestNumber, quote.Status),
			Type:      model.NotifQuoteStatus,
			Link:      "/admin/quote-requests/" + quote.ID.String(),
			RelatedID: &quote.ID,
		}); err != nil {
			log.Printf("quote %s: status notification failed: %v", quote.RequestNumber, err)
		}
	}

	return toQuoteResponse(*quote), nil
}

// resolveItemName looks the referenced catalog entry up by category. A
// custom item has no catalog backing; a dangling reference is a caller
// error.
func (s *quoteService) resolveItemName(ctx context.Context, category string, id uuid.UUID) (string, error) {
	switch category {
	case model.ItemCategoryProduct:
		p, err := s.catalogRepo.FindProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperr.NewValidation("item_id", "unknown product")
			}
			return "", fmt.Errorf("failed to resolve product: %w", err)
		}
		return p.Name, nil
	case model.ItemCategoryRawLeather:
		rl, err := s.catalogRepo.FindRawLeatherByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperr.NewValidation("item_id", "unknown raw leather")
			}
			return "", fmt.Errorf("failed to resolve raw leather: %w", err)
		}
		return rl.Name, nil
	}
	return "", nil
}

func (s *quoteService) generateRequestNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "QR-" + today + "-"

	count, err := s.quoteRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toQuoteResponse(q model.QuoteRequest) QuoteRequestResponse {
	resp := QuoteRequestResponse{
		ID:                   q.ID.String(),
		RequestNumber:        q.RequestNumber,
		ItemName:             q.ItemName,
		ItemTypeCategory:     q.ItemTypeCategory,
		CustomerName:         q.CustomerName,
		CompanyName:          q.CompanyName,
		Email:                q.Email,
		Phone:                q.Phone,
		Country:              q.Country,
		Address:              q.Address,
		Quantity:             q.Quantity.String(),
		QuantityUnit:         q.QuantityUnit,
		Notes:                q.Notes,
		Status:               q.Status,
		AdminComments:        q.AdminComments,
		PaymentMethod:        q.PaymentMethod,
		PaymentDetails:       q.PaymentDetails,
		LCStatus:             q.LCStatus,
		ShippingTrackingLink: q.ShippingTrackingLink,
		CreatedAt:            q.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            q.UpdatedAt.Format(time.RFC3339),
	}

	if q.ItemID != nil {
		s := q.ItemID.String()
		resp.ItemID = &s
	}
	if q.ProposedPricePerUnit != nil {
		s := q.ProposedPricePerUnit.StringFixed(2)
		resp.ProposedPricePerUnit = &s
	}
	if q.ProposedTotalPrice != nil {
		s := q.ProposedTotalPrice.StringFixed(2)
		resp.ProposedTotalPrice = &s
	}
	if q.InvoiceID != nil {
		s := q.InvoiceID.String()
		resp.InvoiceID = &s
	}

	return resp
}
