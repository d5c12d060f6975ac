package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "sitecms/internal/errors"
	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// MessageService handles contact-form messages.
type MessageService interface {
	// Submit stores a public message. Status always starts as unread.
	Submit(ctx context.Context, msg *model.Message) (*model.Message, error)
	List(ctx context.Context, params ListParams) (*Page[model.Message], error)
	Get(ctx context.Context, id uint) (*model.Message, error)
	// UpdateStatus changes the triage status and, when reply is non-nil, the reply text.
	UpdateStatus(ctx context.Context, id uint, status model.MessageStatus, reply *string) (*model.Message, error)
	Delete(ctx context.Context, id uint) error
}

type messageService struct {
	crud CRUDService[model.Message]
}

// NewMessageService builds a MessageService.
func NewMessageService(repo repository.Repository[model.Message]) MessageService {
	return &messageService{
		crud: NewCRUDService(repo, CRUDOptions{
			KeywordColumns: []string{"name", "email", "company", "subject", "content"},
			Order:          "created_at DESC, id DESC",
		}),
	}
}

func (s *messageService) Submit(ctx context.Context, msg *model.Message) (*model.Message, error) {
	msg.ID = 0
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Content = strings.TrimSpace(msg.Content)
	if msg.Name == "" || msg.Content == "" {
		return nil, fmt.Errorf("%w: name and content are required", apperrors.ErrInvalidInput)
	}
	msg.Status = model.MessageStatusUnread
	msg.Reply = ""
	return s.crud.Create(ctx, msg)
}

func (s *messageService) List(ctx context.Context, params ListParams) (*Page[model.Message], error) {
	if status, ok := params.Filters["status"]; ok {
		if !model.MessageStatus(fmt.Sprint(status)).Valid() {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidStatus, status)
		}
	}
	return s.crud.List(ctx, params)
}

func (s *messageService) Get(ctx context.Context, id uint) (*model.Message, error) {
	return s.crud.Get(ctx, id)
}

func (s *messageService) UpdateStatus(ctx context.Context, id uint, status model.MessageStatus, reply *string) (*model.Message, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}
	return s.crud.Update(ctx, id, func(m *model.Message) {
		m.Status = status
		if reply != nil {
			m.Reply = *reply
		}
	})
}

func (s *messageService) Delete(ctx context.Context, id uint) error {
	return s.crud.Delete(ctx, id)
}
