package handler

import (
	"net/http"

	"hidetrade/internal/middleware"
	"hidetrade/internal/service"
	"hidetrade/pkg/pagination"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/api/messages")
	{
		messages.POST("", h.CreateMessage)
		messages.GET("", middleware.RequireAdmin(), h.ListMessages)
		messages.PATCH("/:id/read", middleware.RequireAdmin(), h.MarkRead)
	}
}

// CreateMessage records a contact form submission
// @Summary      Create contact message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateMessageInput  true  "Message Payload"
// @Success      201      {object}  response.Response{data=service.MessageResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/messages [post]
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var input service.CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	message, err := h.messageService.CreateMessage(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK("message received", message))
}

// ListMessages returns the contact message inbox
// @Summary      List contact messages
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        unread  query     bool  false  "Unread only"
// @Param        page    query     int   false  "Page number"
// @Param        limit   query     int   false  "Items per page"
// @Success      200     {object}  response.Response{data=[]service.MessageResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	params := pagination.Parse(c)
	unreadOnly := c.Query("unread") == "true"

	messages, total, err := h.messageService.ListMessages(c.Request.Context(), unreadOnly, params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("messages fetched", messages, params.Page, params.Limit, total))
}

// MarkRead marks a contact message as read
// @Summary      Mark message read
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/messages/{id}/read [patch]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageService.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("message marked read", nil))
}
