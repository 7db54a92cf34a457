package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hidetrade/internal/payment"
	"hidetrade/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_handler_test"

type stubSampleService struct {
	service.SampleService

	outcome   service.WebhookOutcome
	err       error
	handled   int
	lastEvent *payment.Event
}

func (s *stubSampleService) HandleWebhookEvent(ctx context.Context, event *payment.Event) (service.WebhookOutcome, error) {
	s.handled++
	s.lastEvent = event
	return s.outcome, s.err
}

func newWebhookRouter(samples *stubSampleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	verifier := payment.NewStripeClient("sk_test_x", webhookSecret)
	NewWebhookHandler(verifier, samples).RegisterRoutes(router.Group(""))
	return router
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhooks", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookValidSignature(t *testing.T) {
	samples := &stubSampleService{outcome: service.WebhookApplied}
	router := newWebhookRouter(samples)

	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)
	rec := postWebhook(router, body, payment.SignPayload(body, webhookSecret, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, samples.handled)
	require.NotNil(t, samples.lastEvent)
	assert.Equal(t, "pi_1", samples.lastEvent.Data.Object.ID)
}

func TestWebhookBadSignatureDoesNotReachService(t *testing.T) {
	samples := &stubSampleService{outcome: service.WebhookApplied}
	router := newWebhookRouter(samples)

	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	rec := postWebhook(router, body, payment.SignPayload(body, "whsec_wrong", time.Now()))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, samples.handled)
}

func TestWebhookMissingSignature(t *testing.T) {
	samples := &stubSampleService{}
	router := newWebhookRouter(samples)

	rec := postWebhook(router, []byte(`{}`), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, samples.handled)
}

func TestWebhookUnknownIntentIsAcknowledged(t *testing.T) {
	samples := &stubSampleService{outcome: service.WebhookUnknownIntent}
	router := newWebhookRouter(samples)

	body := []byte(`{"id":"evt_2","type":"payment_intent.succeeded","data":{"object":{"id":"pi_unknown"}}}`)
	rec := postWebhook(router, body, payment.SignPayload(body, webhookSecret, time.Now()))

	// 200 so the provider stops retrying an event that will never match.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookPersistenceFailureTriggersRetry(t *testing.T) {
	samples := &stubSampleService{err: errors.New("database down")}
	router := newWebhookRouter(samples)

	body := []byte(`{"id":"evt_3","type":"payment_intent.succeeded","data":{"object":{"id":"pi_3"}}}`)
	rec := postWebhook(router, body, payment.SignPayload(body, webhookSecret, time.Now()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
