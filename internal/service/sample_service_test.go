package service

import (
	"context"
	"testing"

	"hidetrade/internal/config"
	"hidetrade/internal/model"
	"hidetrade/internal/payment"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSampleFixture(t *testing.T) (SampleService, *gorm.DB, *stubIntents) {
	db := newTestDB(t)
	intents := &stubIntents{}
	svc := NewSampleService(
		repository.NewSampleRepository(db),
		newTestNotifier(db),
		intents,
		&stubTransfers{status: payment.TransferStatus{Status: "outgoing_payment_sent"}},
		repository.NewTransactionManager(db),
		config.DefaultShipping(),
		"usd",
	)
	return svc, db, intents
}

func validSampleInput() CreateSampleRequestInput {
	return CreateSampleRequestInput{
		CustomerName:    "Aiko Tanaka",
		Email:           "aiko@tanaka.example",
		ShippingAddress: "2-4-1 Shibaura, Tokyo",
		Country:         "Japan",
		SampleType:      "vegetable tanned swatches",
	}
}

func TestShippingFeeByDestination(t *testing.T) {
	svc, _, _ := newSampleFixture(t)

	cases := []struct {
		country string
		cents   int64
	}{
		{"United States", 2000},
		{"Germany", 2500},
		{"Japan", 3000},
		{"Australia", 3000},
		{"Brazil", 3500},
		{"Nigeria", 4000},
		{"Atlantis", 2800}, // unmapped destination gets the default
	}
	for _, tc := range cases {
		assert.Equal(t, tc.cents, svc.ShippingFeeCents(tc.country), tc.country)
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	svc, _, intents := newSampleFixture(t)

	resp, err := svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentInput{
		Country:  "Germany",
		Currency: "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_test_123", resp.IntentID)
	assert.NotEmpty(t, resp.ClientSecret)
	assert.EqualValues(t, 2500, resp.ShippingFeeCents)

	// The fee is computed server-side and passed to the provider as-is.
	assert.EqualValues(t, 2500, intents.lastAmt)
	assert.Equal(t, "usd", intents.lastCur)
	assert.Equal(t, "sample_shipping", intents.lastMD["purpose"])
}

func TestCreatePaymentIntentRejectsForeignCurrency(t *testing.T) {
	svc, _, _ := newSampleFixture(t)

	_, err := svc.CreatePaymentIntent(context.Background(), CreatePaymentIntentInput{
		Country:  "Germany",
		Currency: "eur",
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateSampleRequest(t *testing.T) {
	svc, db, _ := newSampleFixture(t)

	input := validSampleInput()
	input.PaymentIntentID = "pi_abc"
	resp, err := svc.CreateSampleRequest(context.Background(), input)
	require.NoError(t, err)

	assert.Regexp(t, `^SR-\d{8}-\d{5}$`, resp.RequestNumber)
	assert.Equal(t, model.SamplePending, resp.PaymentStatus)
	assert.EqualValues(t, 3000, resp.ShippingFeeCents)
	require.NotNil(t, resp.PaymentIntentID)
	assert.Equal(t, "pi_abc", *resp.PaymentIntentID)

	var notifCount int64
	require.NoError(t, db.Model(&model.Notification{}).Where("type = ?", model.NotifNewSampleRequest).Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)
}

func succeededEvent(intentID string) *payment.Event {
	ev := &payment.Event{ID: "evt_1", Type: "payment_intent.succeeded"}
	ev.Data.Object.ID = intentID
	return ev
}

func TestHandleWebhookEventMarksPaid(t *testing.T) {
	svc, db, _ := newSampleFixture(t)

	input := validSampleInput()
	input.PaymentIntentID = "pi_pay_1"
	created, err := svc.CreateSampleRequest(context.Background(), input)
	require.NoError(t, err)

	outcome, err := svc.HandleWebhookEvent(context.Background(), succeededEvent("pi_pay_1"))
	require.NoError(t, err)
	assert.Equal(t, WebhookApplied, outcome)

	var reloaded model.SampleRequest
	require.NoError(t, db.First(&reloaded, "request_number = ?", created.RequestNumber).Error)
	assert.Equal(t, model.SamplePaid, reloaded.PaymentStatus)
}

func TestHandleWebhookEventIdempotent(t *testing.T) {
	svc, db, _ := newSampleFixture(t)

	input := validSampleInput()
	input.PaymentIntentID = "pi_pay_2"
	_, err := svc.CreateSampleRequest(context.Background(), input)
	require.NoError(t, err)

	outcome, err := svc.HandleWebhookEvent(context.Background(), succeededEvent("pi_pay_2"))
	require.NoError(t, err)
	assert.Equal(t, WebhookApplied, outcome)

	// Re-delivery of the same event is a no-op.
	outcome, err = svc.HandleWebhookEvent(context.Background(), succeededEvent("pi_pay_2"))
	require.NoError(t, err)
	assert.Equal(t, WebhookAlreadyApplied, outcome)

	// Only the first application produced a payment notification.
	var notifCount int64
	require.NoError(t, db.Model(&model.Notification{}).Where("type = ?", model.NotifPaymentConfirmed).Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)
}

func TestHandleWebhookEventUnknownIntent(t *testing.T) {
	svc, _, _ := newSampleFixture(t)

	outcome, err := svc.HandleWebhookEvent(context.Background(), succeededEvent("pi_nobody"))
	require.NoError(t, err)
	assert.Equal(t, WebhookUnknownIntent, outcome)
}

func TestHandleWebhookEventFailureRecordsError(t *testing.T) {
	svc, db, _ := newSampleFixture(t)

	input := validSampleInput()
	input.PaymentIntentID = "pi_fail_1"
	created, err := svc.CreateSampleRequest(context.Background(), input)
	require.NoError(t, err)

	ev := &payment.Event{ID: "evt_2", Type: "payment_intent.payment_failed"}
	ev.Data.Object.ID = "pi_fail_1"
	ev.Data.Object.LastPaymentError = &struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{Code: "card_declined", Message: "Your card was declined."}

	outcome, err := svc.HandleWebhookEvent(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, WebhookApplied, outcome)

	var reloaded model.SampleRequest
	require.NoError(t, db.First(&reloaded, "request_number = ?", created.RequestNumber).Error)
	assert.Equal(t, model.SampleFailed, reloaded.PaymentStatus)
	assert.Equal(t, "card_declined", reloaded.PaymentErrorCode)
	assert.Equal(t, "Your card was declined.", reloaded.PaymentErrorMessage)
}

func TestHandleWebhookEventIgnoresOtherTypes(t *testing.T) {
	svc, _, _ := newSampleFixture(t)

	ev := &payment.Event{ID: "evt_3", Type: "charge.refunded"}
	ev.Data.Object.ID = "pi_whatever"

	outcome, err := svc.HandleWebhookEvent(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, WebhookIgnored, outcome)
}

func TestUpdateSampleRequestShippedStampsTime(t *testing.T) {
	svc, db, _ := newSampleFixture(t)

	created, err := svc.CreateSampleRequest(context.Background(), validSampleInput())
	require.NoError(t, err)

	shipped := model.SampleShipped
	tracking := "https://track.example/ABC"
	resp, err := svc.UpdateSampleRequest(context.Background(), created.ID, UpdateSampleRequestInput{
		PaymentStatus:        &shipped,
		ShippingTrackingLink: &tracking,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SampleShipped, resp.PaymentStatus)
	require.NotNil(t, resp.ShippedAt)

	var reloaded model.SampleRequest
	require.NoError(t, db.First(&reloaded, "request_number = ?", created.RequestNumber).Error)
	require.NotNil(t, reloaded.ShippedAt)
	assert.Equal(t, tracking, reloaded.ShippingTrackingLink)
}

func TestCheckWiseTransferPassthrough(t *testing.T) {
	svc, _, _ := newSampleFixture(t)

	status, err := svc.CheckWiseTransfer(context.Background(), "7421980")
	require.NoError(t, err)
	assert.Equal(t, "7421980", status.TransferID)
	assert.Equal(t, "outgoing_payment_sent", status.Status)
}
