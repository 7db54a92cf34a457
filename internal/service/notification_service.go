package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateNotificationInput struct {
	Title     string
	Message   string
	Type      string
	Link      string
	RelatedID *uuid.UUID
}

type NotificationResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	Link      string  `json:"link,omitempty"`
	RelatedID *string `json:"related_id,omitempty"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"created_at"`
}

// --- Interface ---

// NotificationService is the admin-facing side-effect dispatcher. Create
// is a pure insert plus a live broadcast; it throws on storage failure
// and the caller decides whether to swallow. Cleanup enforces the
// retention window.
type NotificationService interface {
	Create(ctx context.Context, input CreateNotificationInput) error
	List(ctx context.Context, unreadOnly bool, page, limit int) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

// Broadcaster pushes an event to connected admin clients. The websocket
// hub satisfies it via its Broadcast channel.
type Broadcaster interface {
	Push(payload []byte)
}

type notificationService struct {
	repo        repository.NotificationRepository
	broadcaster Broadcaster
}

func NewNotificationService(repo repository.NotificationRepository, broadcaster Broadcaster) NotificationService {
	return &notificationService{repo: repo, broadcaster: broadcaster}
}

// --- Implementation ---

func (s *notificationService) Create(ctx context.Context, input CreateNotificationInput) error {
	if input.Title == "" || input.Message == "" || input.Type == "" {
		return apperr.NewValidation("notification", "title, message and type are required")
	}

	n := model.Notification{
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		Link:      input.Link,
		RelatedID: input.RelatedID,
	}

	if err := s.repo.Create(ctx, &n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.broadcaster != nil {
		if payload, err := json.Marshal(toNotificationResponse(n)); err == nil {
			s.broadcaster.Push(payload)
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, unreadOnly bool, page, limit int) ([]NotificationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	notifications, total, err := s.repo.List(ctx, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	result := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, toNotificationResponse(n))
	}
	return result, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	notifID, err := uuid.Parse(id)
	if err != nil {
		return apperr.NewValidation("id", "invalid notification id")
	}

	affected, err := s.repo.MarkRead(ctx, notifID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: notification %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return affected, nil
}

// Cleanup deletes notifications created strictly before now-retention and
// returns the deleted count. Idempotent; the scheduled trigger may re-run
// it freely.
func (s *notificationService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	return deleted, nil
}

// --- Mapping ---

func toNotificationResponse(n model.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.RelatedID != nil {
		s := n.RelatedID.String()
		resp.RelatedID = &s
	}
	return resp
}
