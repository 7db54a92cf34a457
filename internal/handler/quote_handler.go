package handler

import (
	"net/http"

	"hidetrade/internal/middleware"
	"hidetrade/internal/service"
	"hidetrade/pkg/pagination"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService   service.QuoteService
	invoiceService service.InvoiceService
}

func NewQuoteHandler(quoteService service.QuoteService, invoiceService service.InvoiceService) *QuoteHandler {
	return &QuoteHandler{
		quoteService:   quoteService,
		invoiceService: invoiceService,
	}
}

func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/api/quote-requests")
	{
		quotes.POST("", h.CreateQuoteRequest) // public storefront submission
		quotes.GET("", middleware.RequireAdmin(), h.ListQuoteRequests)
		quotes.GET("/:id", middleware.RequireAdmin(), h.GetQuoteRequest)
		quotes.PATCH("/:id", middleware.RequireAdmin(), h.UpdateQuoteRequest)
		quotes.PATCH("/:id/invoice", middleware.RequireAdmin(), h.GenerateInvoice)
	}
}

// CreateQuoteRequest submits a new quote request from the storefront
// @Summary      Create quote request
// @Description  Submits a customer quote request for a catalog item
// @Tags         quote-requests
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateQuoteRequestInput  true  "Quote Request Payload"
// @Success      201      {object}  response.Response{data=service.QuoteRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/quote-requests [post]
func (h *QuoteHandler) CreateQuoteRequest(c *gin.Context) {
	var input service.CreateQuoteRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.CreateQuoteRequest(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("quote request created", quote))
}

// ListQuoteRequests returns a filtered, paginated quote request listing
// @Summary      List quote requests
// @Description  Filters by status, country, category, and free text; sortable on an allow-listed field set
// @Tags         quote-requests
// @Security     BearerAuth
// @Produce      json
// @Param        status    query     string  false  "Status filter"
// @Param        country   query     string  false  "Country filter"
// @Param        category  query     string  false  "Item category filter"
// @Param        search    query     string  false  "Free-text search"
// @Param        sort_by   query     string  false  "Sort field (created_at, updated_at, status, quantity, customer_name)"
// @Param        order     query     string  false  "asc or desc (default desc)"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Items per page"
// @Success      200       {object}  response.Response{data=[]service.QuoteRequestResponse}
// @Failure      500       {object}  response.Response
// @Router       /api/quote-requests [get]
func (h *QuoteHandler) ListQuoteRequests(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.QuoteListFilter{
		Status:   c.Query("status"),
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		OrderBy:  pagination.Sort(c, service.QuoteSortColumns(), "created_at"),
		Page:     params.Page,
		Limit:    params.Limit,
	}

	quotes, total, err := h.quoteService.ListQuoteRequests(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("quote requests fetched", quotes, params.Page, params.Limit, total))
}

// GetQuoteRequest returns one quote request by id
// @Summary      Get quote request
// @Tags         quote-requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Quote Request ID"
// @Success      200  {object}  response.Response{data=service.QuoteRequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/quote-requests/{id} [get]
func (h *QuoteHandler) GetQuoteRequest(c *gin.Context) {
	quote, err := h.quoteService.GetQuoteRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("quote request fetched", quote))
}

// UpdateQuoteRequest applies an admin update (status, comments, pricing, tracking)
// @Summary      Update quote request
// @Tags         quote-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Quote Request ID"
// @Param        payload  body      service.UpdateQuoteRequestInput  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.QuoteRequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/quote-requests/{id} [patch]
func (h *QuoteHandler) UpdateQuoteRequest(c *gin.Context) {
	var input service.UpdateQuoteRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateQuoteRequest(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("quote request updated", quote))
}

// GenerateInvoice derives the invoice for an approved quote request
// @Summary      Generate invoice
// @Description  Creates the single invoice for an approved quote request, emails the PDF, and attaches pricing to the quote
// @Tags         quote-requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Quote Request ID"
// @Param        payload  body      service.GenerateInvoiceInput  true  "Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/quote-requests/{id}/invoice [patch]
func (h *QuoteHandler) GenerateInvoice(c *gin.Context) {
	var input service.GenerateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("invoice generated", invoice))
}
