package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateMessageInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type MessageService interface {
	CreateMessage(ctx context.Context, input CreateMessageInput) (MessageResponse, error)
	ListMessages(ctx context.Context, unreadOnly bool, page, limit int) ([]MessageResponse, int64, error)
	MarkRead(ctx context.Context, id string) error
}

type messageService struct {
	repo     repository.MessageRepository
	notifier NotificationService
}

func NewMessageService(repo repository.MessageRepository, notifier NotificationService) MessageService {
	return &messageService{repo: repo, notifier: notifier}
}

// --- Implementation ---

func (s *messageService) CreateMessage(ctx context.Context, input CreateMessageInput) (MessageResponse, error) {
	m := model.Message{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Body:    input.Body,
	}

	if err := s.repo.Create(ctx, &m); err != nil {
		return MessageResponse{}, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.notifier.Create(ctx, CreateNotificationInput{
		Title:     "New contact message",
		Message:   fmt.Sprintf("%s wrote: %s", m.Name, m.Subject),
		Type:      model.NotifNewMessage,
		Link:      "/admin/messages",
		RelatedID: &m.ID,
	}); err != nil {
		log.Printf("message from %s: notification failed: %v", m.Email, err)
	}

	return toMessageResponse(m), nil
}

func (s *messageService) ListMessages(ctx context.Context, unreadOnly bool, page, limit int) ([]MessageResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	messages, total, err := s.repo.List(ctx, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	result := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}
	return result, total, nil
}

func (s *messageService) MarkRead(ctx context.Context, id string) error {
	messageID, err := uuid.Parse(id)
	if err != nil {
		return apperr.NewValidation("id", "invalid message id")
	}

	affected, err := s.repo.MarkRead(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: message %s", apperr.ErrNotFound, id)
	}
	return nil
}

// --- Mapping ---

func toMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Body:      m.Body,
		Read:      m.Read,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
