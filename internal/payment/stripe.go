package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hidetrade/pkg/apperr"
)

const stripeAPIBase = "https://api.stripe.com"

// signatureTolerance bounds the age of a webhook timestamp to limit
// replay of captured deliveries.
const signatureTolerance = 5 * time.Minute

// Intent is the subset of a provider payment intent the platform needs.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// Event is a decoded webhook event.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID               string `json:"id"`
			LastPaymentError *struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}

// IntentCreator creates provider-side payment intents. Satisfied by
// StripeClient; tests substitute a stub.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
}

// StripeClient talks to the card rail over its REST API.
type StripeClient struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	return &StripeClient{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		baseURL:       stripeAPIBase,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateIntent creates a payment intent for the given amount in minor units.
func (c *StripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: payment provider unreachable: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: payment provider rejected intent (status %d)", apperr.ErrUnavailable, resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	return &intent, nil
}

// VerifyWebhook checks the signature header against the raw body and, if
// valid, decodes the event. A missing or mismatching signature is fatal
// for the delivery — no fallback.
func (c *StripeClient) VerifyWebhook(payload []byte, sigHeader string) (*Event, error) {
	if err := verifySignature(payload, sigHeader, c.webhookSecret, time.Now()); err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed webhook payload", apperr.ErrValidation)
	}
	return &event, nil
}

// verifySignature implements the t=<unix>,v1=<hex hmac> header scheme:
// HMAC-SHA256 over "<t>.<raw body>" with the shared endpoint secret.
func verifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	if sigHeader == "" {
		return fmt.Errorf("%w: missing webhook signature", apperr.ErrUnauthorized)
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("%w: malformed webhook signature header", apperr.ErrUnauthorized)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed webhook signature timestamp", apperr.ErrUnauthorized)
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("%w: webhook signature timestamp outside tolerance", apperr.ErrUnauthorized)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("%w: webhook signature mismatch", apperr.ErrUnauthorized)
}

// SignPayload produces a valid signature header for the given body and
// secret. Used by tests and local webhook replay tooling.
func SignPayload(payload []byte, secret string, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return "t=" + timestamp + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}
