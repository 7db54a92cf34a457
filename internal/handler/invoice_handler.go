package handler

import (
	"net/http"

	"hidetrade/internal/middleware"
	"hidetrade/internal/service"
	"hidetrade/pkg/pagination"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices", middleware.RequireAdmin())
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PATCH("/:id/status", h.UpdateStatus)
	}
}

// ListInvoices returns a paginated invoice listing
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Status filter (draft, sent, paid, cancelled)"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Success      200     {object}  response.Response{data=[]service.InvoiceResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("invoices fetched", invoices, params.Page, params.Limit, total))
}

// GetInvoice returns one invoice by id
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("invoice fetched", invoice))
}

type updateInvoiceStatusInput struct {
	Status string `json:"status" binding:"required,oneof=draft sent paid cancelled"`
}

// UpdateStatus changes the invoice status, the only mutable field
// @Summary      Update invoice status
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Invoice ID"
// @Param        payload  body      updateInvoiceStatusInput  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var input updateInvoiceStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("invoice status updated", invoice))
}
