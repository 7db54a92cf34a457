package handler

import (
	"net/http"
	"time"

	"hidetrade/internal/middleware"
	"hidetrade/internal/service"
	"hidetrade/pkg/pagination"
	"hidetrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	cronSecret          string
	retention           time.Duration
}

func NewNotificationHandler(notificationService service.NotificationService, cronSecret string, retention time.Duration) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		cronSecret:          cronSecret,
		retention:           retention,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/api/notifications")
	{
		notifications.GET("", middleware.RequireAdmin(), h.ListNotifications)
		notifications.PATCH("/read-all", middleware.RequireAdmin(), h.MarkAllRead)
		notifications.PATCH("/:id/read", middleware.RequireAdmin(), h.MarkRead)
		// Triggered by the external scheduler, not by admin sessions.
		notifications.GET("/cleanup", middleware.RequireCronSecret(h.cronSecret), h.Cleanup)
	}
}

// ListNotifications returns a paginated notification feed
// @Summary      List notifications
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        unread  query     bool  false  "Unread only"
// @Param        page    query     int   false  "Page number"
// @Param        limit   query     int   false  "Items per page"
// @Success      200     {object}  response.Response{data=[]service.NotificationResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	params := pagination.Parse(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := h.notificationService.List(c.Request.Context(), unreadOnly, params.Page, params.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated("notifications fetched", notifications, params.Page, params.Limit, total))
}

// MarkRead marks a single notification as read
// @Summary      Mark notification read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("notification marked read", nil))
}

// MarkAllRead marks every unread notification as read
// @Summary      Mark all notifications read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=gin.H}
// @Failure      500  {object}  response.Response
// @Router       /api/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	affected, err := h.notificationService.MarkAllRead(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("notifications marked read", gin.H{"updated": affected}))
}

// Cleanup deletes notifications older than the retention window
// @Summary      Purge old notifications
// @Description  Deletes notifications past the retention window; called by the scheduled job with the shared secret
// @Tags         notifications
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer scheduler shared secret"
// @Success      200            {object}  response.Response{data=gin.H}
// @Failure      401            {object}  response.Response
// @Router       /api/notifications/cleanup [get]
func (h *NotificationHandler) Cleanup(c *gin.Context) {
	deleted, err := h.notificationService.Cleanup(c.Request.Context(), h.retention)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("old notifications purged", gin.H{"deleted": deleted}))
}
