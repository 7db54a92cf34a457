package payment

import (
	"testing"
	"time"

	"hidetrade/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func TestVerifySignatureValid(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	header := SignPayload(payload, testSecret, now)
	assert.NoError(t, verifySignature(payload, header, testSecret, now))
}

func TestVerifySignatureMissingHeader(t *testing.T) {
	err := verifySignature([]byte("{}"), "", testSecret, time.Now())
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := SignPayload(payload, "whsec_other", now)
	err := verifySignature(payload, header, testSecret, now)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	now := time.Now()
	header := SignPayload([]byte(`{"amount":2500}`), testSecret, now)

	err := verifySignature([]byte(`{"amount":9999999}`), header, testSecret, now)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	payload := []byte("{}")
	signedAt := time.Now().Add(-10 * time.Minute)

	header := SignPayload(payload, testSecret, signedAt)
	err := verifySignature(payload, header, testSecret, time.Now())
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestVerifySignatureWithinTolerance(t *testing.T) {
	payload := []byte("{}")
	signedAt := time.Now().Add(-4 * time.Minute)

	header := SignPayload(payload, testSecret, signedAt)
	assert.NoError(t, verifySignature(payload, header, testSecret, time.Now()))
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	for _, header := range []string{
		"t=abc,v1=deadbeef",
		"v1=deadbeef",
		"t=1700000000",
		"nonsense",
	} {
		err := verifySignature([]byte("{}"), header, testSecret, time.Now())
		assert.ErrorIs(t, err, apperr.ErrUnauthorized, "header %q", header)
	}
}

func TestVerifyWebhookDecodesEvent(t *testing.T) {
	client := NewStripeClient("sk_test_x", testSecret)
	payload := []byte(`{"id":"evt_42","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_9","last_payment_error":{"code":"card_declined","message":"declined"}}}}`)

	event, err := client.VerifyWebhook(payload, SignPayload(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_42", event.ID)
	assert.Equal(t, "payment_intent.payment_failed", event.Type)
	assert.Equal(t, "pi_9", event.Data.Object.ID)
	require.NotNil(t, event.Data.Object.LastPaymentError)
	assert.Equal(t, "card_declined", event.Data.Object.LastPaymentError.Code)
}

func TestVerifyWebhookRejectsMalformedJSON(t *testing.T) {
	client := NewStripeClient("sk_test_x", testSecret)
	payload := []byte("{not json")

	_, err := client.VerifyWebhook(payload, SignPayload(payload, testSecret, time.Now()))
	require.ErrorIs(t, err, apperr.ErrValidation)
}
