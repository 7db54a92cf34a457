package handler

import (
	"net/http"

	"hidetrade/internal/middleware"
	"hidetrade/internal/service"
	"hidetrade/pkg/pagination"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type SampleHandler struct {
	sampleService service.SampleService
}

func NewSampleHandler(sampleService service.SampleService) *SampleHandler {
	return &SampleHandler{sampleService: sampleService}
}

func (h *SampleHandler) RegisterRoutes(router *gin.RouterGroup) {
	samples := router.Group("/api/sample-requests")
	{
		samples.POST("/create-payment-intent", h.CreatePaymentIntent)
		samples.POST("", h.CreateSampleRequest)
		samples.GET("/check-wise-transfer", h.CheckWiseTransfer)
		samples.GET("", middleware.RequireAdmin(), h.ListSampleRequests)
		samples.PATCH("/:id", middleware.RequireAdmin(), h.UpdateSampleRequest)
	}
}

// CreatePaymentIntent creates a card payment intent for the shipping fee
// @Summary      Create sample payment intent
// @Description  Computes the shipping fee for the destination server-side and opens a payment intent for it
// @Tags         sample-requests
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePaymentIntentInput  true  "Destination and currency"
// @Success      200      {object}  response.Response{data=service.PaymentIntentResponse}
// @Failure      400      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /api/sample-requests/create-payment-intent [post]
func (h *SampleHandler) CreatePaymentIntent(c *gin.Context) {
	var input service.CreatePaymentIntentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	intent, err := h.sampleService.CreatePaymentIntent(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("payment intent created", intent))
}

// CreateSampleRequest records a sample request from the storefront
// @Summary      Create sample request
// @Tags         sample-requests
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSampleRequestInput  true  "Sample Request Payload"
// @Success      201      {object}  response.Response{data=service.SampleRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/sample-requests [post]
func (h *SampleHandler) CreateSampleRequest(c *gin.Context) {
	var input service.CreateSampleRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	sample, err := h.sampleService.CreateSampleRequest(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("sample request created", sample))
}

// CheckWiseTransfer polls the bank-transfer rail for a transfer's status
// @Summary      Check bank transfer status
// @Tags         sample-requests
// @Produce      json
// @Param        id   query     string  true  "Transfer ID"
// @Success      200  {object}  response.Response{data=payment.TransferStatus}
// @Failure      400  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /api/sample-requests/check-wise-transfer [get]
func (h *SampleHandler) CheckWiseTransfer(c *gin.Context) {
	transferID := c.Query("id")
	if transferID == "" {
		c.JSON(http.StatusBadRequest, response.Fail("transfer id is required"))
		return
	}

	status, err := h.sampleService.CheckWiseTransfer(c.Request.Context(), transferID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("transfer status fetched", status))
}

// ListSampleRequests returns a paginated sample request listing
// @Summary      List sample requests
// @Tags         sample-requests
// @Security     BearerAuth
// @Produce      json
// @Param        payment_status  query     string  false  "Payment status filter"
// @Param        page            query     int     false  "Page number"
// @Param        limit           query     int     false  "Items per page"
// @Success      200             {object}  response.Response{data=[]service.SampleRequestResponse}
// @Failure      500             {object}  response.Response
// @Router       /api/sample-requests [get]
func (h *SampleHandler) ListSampleRequests(c *gin.Context) {
	params := pagination.Parse(c)

	samples, total, err := h.sampleService.ListSampleRequests(c.Request.Context(), c.Query("payment_status"), params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("sample requests fetched", samples, params.Page, params.Limit, total))
}

// UpdateSampleRequest applies an admin fulfilment update
// @Summary      Update sample request
// @Tags         sample-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Sample Request ID"
// @Param        payload  body      service.UpdateSampleRequestInput  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.SampleRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/sample-requests/{id} [patch]
func (h *SampleHandler) UpdateSampleRequest(c *gin.Context) {
	var input service.UpdateSampleRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	sample, err := h.sampleService.UpdateSampleRequest(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("sample request updated", sample))
}
