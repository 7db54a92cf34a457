package handler

import (
	"io"
	"log"
	"net/http"

	"hidetrade/internal/payment"
	"hidetrade/internal/service"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookVerifier validates a raw webhook delivery against its signature
// header and decodes the event. Satisfied by payment.StripeClient.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, sigHeader string) (*payment.Event, error)
}

type WebhookHandler struct {
	verifier      WebhookVerifier
	sampleService service.SampleService
}

func NewWebhookHandler(verifier WebhookVerifier, sampleService service.SampleService) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, sampleService: sampleService}
}

func (h *WebhookHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/stripe-webhooks", h.HandleStripeWebhook)
}

// HandleStripeWebhook ingests a provider callback
// @Summary      Stripe webhook receiver
// @Description  Verifies the signature over the raw body and reconciles payment state onto the matching sample request
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Signature header"
// @Success      200               {object}  response.Response
// @Failure      401               {object}  response.Response
// @Failure      500               {object}  response.Response
// @Router       /api/stripe-webhooks [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Signature verification needs the raw bytes, so the body is read
	// before any JSON binding.
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("failed to read webhook body"))
		return
	}

	event, err := h.verifier.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		response.Error(c, err)
		return
	}

	outcome, err := h.sampleService.HandleWebhookEvent(c.Request.Context(), event)
	if err != nil {
		// A persistence failure must return 5xx so the provider retries
		// the delivery.
		log.Printf("webhook %s: %v", event.ID, err)
		c.JSON(http.StatusInternalServerError, response.Fail("failed to process webhook event"))
		return
	}

	switch outcome {
	case service.WebhookUnknownIntent:
		// Acknowledged so the provider stops retrying an event this
		// platform will never match.
		c.JSON(http.StatusOK, response.OK("event acknowledged, no matching request", nil))
	case service.WebhookAlreadyApplied:
		c.JSON(http.StatusOK, response.OK("event already applied", nil))
	case service.WebhookIgnored:
		c.JSON(http.StatusOK, response.OK("event type ignored", nil))
	default:
		c.JSON(http.StatusOK, response.OK("event processed", nil))
	}
}
