package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hidetrade/internal/config"
	"hidetrade/internal/model"
	"hidetrade/internal/payment"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePaymentIntentInput struct {
	Country  string `json:"country" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

type PaymentIntentResponse struct {
	IntentID         string `json:"intent_id"`
	ClientSecret     string `json:"client_secret"`
	ShippingFeeCents int64  `json:"shipping_fee_cents"`
	Currency         string `json:"currency"`
}

type CreateSampleRequestInput struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CompanyName     string `json:"company_name"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	Country         string `json:"country" binding:"required"`
	SampleType      string `json:"sample_type" binding:"required"`
	ProductID       string `json:"product_id"`
	Notes           string `json:"notes"`
	PaymentIntentID string `json:"payment_intent_id"`
	WiseTransferID  string `json:"wise_transfer_id"`
}

// UpdateSampleRequestInput is the admin fulfilment surface.
type UpdateSampleRequestInput struct {
	PaymentStatus        *string `json:"payment_status" binding:"omitempty,oneof=pending paid processing shipped delivered cancelled failed refunded"`
	ShippingTrackingLink *string `json:"shipping_tracking_link"`
}

type SampleRequestResponse struct {
	ID              string  `json:"id"`
	RequestNumber   string  `json:"request_number"`
	CustomerName    string  `json:"customer_name"`
	CompanyName     string  `json:"company_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	ShippingAddress string  `json:"shipping_address"`
	Country         string  `json:"country"`
	SampleType      string  `json:"sample_type"`
	ProductID       *string `json:"product_id"`
	Notes           string  `json:"notes"`

	ShippingFeeCents int64  `json:"shipping_fee_cents"`
	Currency         string `json:"currency"`
	PaymentStatus    string `json:"payment_status"`

	PaymentIntentID     *string `json:"payment_intent_id"`
	PaymentErrorCode    string  `json:"payment_error_code,omitempty"`
	PaymentErrorMessage string  `json:"payment_error_message,omitempty"`

	ShippingTrackingLink string  `json:"shipping_tracking_link"`
	ShippedAt            *string `json:"shipped_at"`
	CreatedAt            string  `json:"created_at"`
}

// WebhookOutcome distinguishes the webhook handler's acknowledgement
// paths: an unknown intent is acknowledged so the provider stops
// retrying, while a persistence failure must surface as a server error
// so the provider retries.
type WebhookOutcome int

const (
	WebhookApplied WebhookOutcome = iota
	WebhookAlreadyApplied
	WebhookUnknownIntent
	WebhookIgnored
)

// --- Interface ---

// SampleService bridges sample requests to the payment rails and
// reconciles asynchronous provider callbacks onto their status.
type SampleService interface {
	ShippingFeeCents(country string) int64
	CreatePaymentIntent(ctx context.Context, input CreatePaymentIntentInput) (PaymentIntentResponse, error)
	CreateSampleRequest(ctx context.Context, input CreateSampleRequestInput) (SampleRequestResponse, error)
	HandleWebhookEvent(ctx context.Context, event *payment.Event) (WebhookOutcome, error)
	CheckWiseTransfer(ctx context.Context, transferID string) (*payment.TransferStatus, error)
	ListSampleRequests(ctx context.Context, paymentStatus string, page, limit int) ([]SampleRequestResponse, int64, error)
	UpdateSampleRequest(ctx context.Context, id string, input UpdateSampleRequestInput) (SampleRequestResponse, error)
}

type sampleService struct {
	sampleRepo repository.SampleRepository
	notifier   NotificationService
	intents    payment.IntentCreator
	transfers  payment.TransferChecker
	txManager  repository.TransactionManager
	shipping   config.ShippingConfig
	currency   string
}

func NewSampleService(
	sampleRepo repository.SampleRepository,
	notifier NotificationService,
	intents payment.IntentCreator,
	transfers payment.TransferChecker,
	txManager repository.TransactionManager,
	shipping config.ShippingConfig,
	currency string,
) SampleService {
	return &sampleService{
		sampleRepo: sampleRepo,
		notifier:   notifier,
		intents:    intents,
		transfers:  transfers,
		txManager:  txManager,
		shipping:   shipping,
		currency:   currency,
	}
}

// --- Implementation ---

// ShippingFeeCents resolves country → continent → fee against the
// injected schedule. Pure lookup, no I/O; unmapped destinations get the
// default fee.
func (s *sampleService) ShippingFeeCents(country string) int64 {
	continent, ok := s.shipping.CountryContinent[country]
	if !ok {
		return s.shipping.DefaultFeeCents
	}
	fee, ok := s.shipping.ContinentFee[continent]
	if !ok {
		return s.shipping.DefaultFeeCents
	}
	return fee
}

// CreatePaymentIntent computes the fee server-side — a client-sent amount
// is never trusted — and creates the provider-side intent for it.
func (s *sampleService) CreatePaymentIntent(ctx context.Context, input CreatePaymentIntentInput) (PaymentIntentResponse, error) {
	if input.Currency != s.currency {
		return PaymentIntentResponse{}, apperr.NewValidation("currency", fmt.Sprintf("only %q is supported", s.currency))
	}

	fee := s.ShippingFeeCents(input.Country)
	if fee <= 0 {
		return PaymentIntentResponse{}, apperr.NewValidation("country", "no positive shipping fee for destination")
	}

	intent, err := s.intents.CreateIntent(ctx, fee, s.currency, map[string]string{
		"purpose": "sample_shipping",
		"country": input.Country,
	})
	if err != nil {
		return PaymentIntentResponse{}, err
	}

	return PaymentIntentResponse{
		IntentID:         intent.ID,
		ClientSecret:     intent.ClientSecret,
		ShippingFeeCents: fee,
		Currency:         s.currency,
	}, nil
}

func (s *sampleService) CreateSampleRequest(ctx context.Context, input CreateSampleRequestInput) (SampleRequestResponse, error) {
	var productID *uuid.UUID
	if input.ProductID != "" {
		parsed, parseErr := uuid.Parse(input.ProductID)
		if parseErr != nil {
			return SampleRequestResponse{}, apperr.NewValidation("product_id", "invalid product id")
		}
		productID = &parsed
	}

	requestNumber, err := s.generateRequestNumber(ctx)
	if err != nil {
		return SampleRequestResponse{}, fmt.Errorf("failed to generate request number: %w", err)
	}

	sample := model.SampleRequest{
		RequestNumber:    requestNumber,
		CustomerName:     input.CustomerName,
		CompanyName:      input.CompanyName,
		Email:            input.Email,
		Phone:            input.Phone,
		ShippingAddress:  input.ShippingAddress,
		Country:          input.Country,
		SampleType:       input.SampleType,
		ProductID:        productID,
		Notes:            input.Notes,
		ShippingFeeCents: s.ShippingFeeCents(input.Country),
		Currency:         s.currency,
		PaymentStatus:    model.SamplePending,
	}
	if input.PaymentIntentID != "" {
		sample.StripePaymentIntentID = &input.PaymentIntentID
	}
	if input.WiseTransferID != "" {
		sample.WiseTransferID = &input.WiseTransferID
	}

	if err := s.sampleRepo.Create(ctx, &sample); err != nil {
		return SampleRequestResponse{}, fmt.Errorf("failed to create sample request: %w", err)
	}

	if err := s.notifier.Create(ctx, CreateNotificationInput{
		Title:     "New sample request",
		Message:   fmt.Sprintf("%s requested %s samples shipping to %s", sample.CustomerName, sample.SampleType, sample.Country),
		Type:      model.NotifNewSampleRequest,
		Link:      "/admin/sample-requests/" + sample.ID.String(),
		RelatedID: &sample.ID,
	}); err != nil {
		log.Printf("sample %s: notification failed: %v", sample.RequestNumber, err)
	}

	return toSampleResponse(sample), nil
}

// HandleWebhookEvent reconciles a verified provider event onto the sample
// request keyed by intent id. Re-deliveries are no-ops: the conditional
// update inside one transaction keeps repeated application safe.
func (s *sampleService) HandleWebhookEvent(ctx context.Context, event *payment.Event) (WebhookOutcome, error) {
	var targetStatus string
	switch event.Type {
	case "payment_intent.succeeded":
		targetStatus = model.SamplePaid
	case "payment_intent.payment_failed":
		targetStatus = model.SampleFailed
	default:
		return WebhookIgnored, nil
	}

	intentID := event.Data.Object.ID
	if intentID == "" {
		return WebhookIgnored, nil
	}

	outcome := WebhookApplied
	var sample *model.SampleRequest
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, findErr := s.sampleRepo.FindByPaymentIntentID(txCtx, intentID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				outcome = WebhookUnknownIntent
				return nil
			}
			return fmt.Errorf("failed to look up sample request: %w", findErr)
		}
		sample = found

		if sample.PaymentStatus == targetStatus {
			outcome = WebhookAlreadyApplied
			return nil
		}

		sample.PaymentStatus = targetStatus
		if targetStatus == model.SampleFailed && event.Data.Object.LastPaymentError != nil {
			sample.PaymentErrorCode = event.Data.Object.LastPaymentError.Code
			sample.PaymentErrorMessage = event.Data.Object.LastPaymentError.Message
		}
		if targetStatus == model.SamplePaid {
			sample.PaymentErrorCode = ""
			sample.PaymentErrorMessage = ""
		}

		if updateErr := s.sampleRepo.Update(txCtx, sample); updateErr != nil {
			return fmt.Errorf("failed to update sample request: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return WebhookApplied, err
	}

	if outcome == WebhookUnknownIntent {
		log.Printf("webhook: no sample request for intent %s, acknowledging", intentID)
		return outcome, nil
	}

	// Notify only on the first application, not on re-delivery.
	if outcome == WebhookApplied {
		notifType := model.NotifPaymentConfirmed
		title := "Sample payment confirmed"
		message := fmt.Sprintf("Shipping fee paid for sample request %s", sample.RequestNumber)
		if targetStatus == model.SampleFailed {
			notifType = model.NotifPaymentFailed
			title = "Sample payment failed"
			message = fmt.Sprintf("Payment failed for sample request %s: %s", sample.RequestNumber, sample.PaymentErrorMessage)
		}
		if err := s.notifier.Create(ctx, CreateNotificationInput{
			Title:     title,
			Message:   message,
			Type:      notifType,
			Link:      "/admin/sample-requests/" + sample.ID.String(),
			RelatedID: &sample.ID,
		}); err != nil {
			log.Printf("sample %s: payment notification failed: %v", sample.RequestNumber, err)
		}
	}

	return outcome, nil
}

func (s *sampleService) CheckWiseTransfer(ctx context.Context, transferID string) (*payment.TransferStatus, error) {
	return s.transfers.CheckTransfer(ctx, transferID)
}

func (s *sampleService) ListSampleRequests(ctx context.Context, paymentStatus string, page, limit int) ([]SampleRequestResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	samples, total, err := s.sampleRepo.List(ctx, paymentStatus, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sample requests: %w", err)
	}

	result := make([]SampleRequestResponse, 0, len(samples))
	for _, sr := range samples {
		result = append(result, toSampleResponse(sr))
	}
	return result, total, nil
}

func (s *sampleService) UpdateSampleRequest(ctx context.Context, id string, input UpdateSampleRequestInput) (SampleRequestResponse, error) {
	sampleID, err := uuid.Parse(id)
	if err != nil {
		return SampleRequestResponse{}, apperr.NewValidation("id", "invalid sample request id")
	}

	sample, err := s.sampleRepo.FindByID(ctx, sampleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SampleRequestResponse{}, fmt.Errorf("%w: sample request %s", apperr.ErrNotFound, id)
		}
		return SampleRequestResponse{}, fmt.Errorf("failed to fetch sample request: %w", err)
	}

	if input.PaymentStatus != nil && *input.PaymentStatus != sample.PaymentStatus {
		sample.PaymentStatus = *input.PaymentStatus
		if *input.PaymentStatus == model.SampleShipped {
			now := time.Now()
			sample.ShippedAt = &now
		}
	}
	if input.ShippingTrackingLink != nil {
		sample.ShippingTrackingLink = *input.ShippingTrackingLink
	}

	if err := s.sampleRepo.Update(ctx, sample); err != nil {
		return SampleRequestResponse{}, fmt.Errorf("failed to update sample request: %w", err)
	}

	return toSampleResponse(*sample), nil
}

func (s *sampleService) generateRequestNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "SR-" + today + "-"

	count, err := s.sampleRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toSampleResponse(sr model.SampleRequest) SampleRequestResponse {
	resp := SampleRequestResponse{
		ID:                   sr.ID.String(),
		RequestNumber:        sr.RequestNumber,
		CustomerName:         sr.CustomerName,
		CompanyName:          sr.CompanyName,
		Email:                sr.Email,
		Phone:                sr.Phone,
		ShippingAddress:      sr.ShippingAddress,
		Country:              sr.Country,
		SampleType:           sr.SampleType,
		Notes:                sr.Notes,
		ShippingFeeCents:     sr.ShippingFeeCents,
		Currency:             sr.Currency,
		PaymentStatus:        sr.PaymentStatus,
		PaymentErrorCode:     sr.PaymentErrorCode,
		PaymentErrorMessage:  sr.PaymentErrorMessage,
		ShippingTrackingLink: sr.ShippingTrackingLink,
		CreatedAt:            sr.CreatedAt.Format(time.RFC3339),
	}
	if sr.ProductID != nil {
		s := sr.ProductID.String()
		resp.ProductID = &s
	}
	if sr.StripePaymentIntentID != nil {
		resp.PaymentIntentID = sr.StripePaymentIntentID
	}
	if sr.ShippedAt != nil {
		s := sr.ShippedAt.Format(time.RFC3339)
		resp.ShippedAt = &s
	}
	return resp
}
