package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/pkg/logger"
)

// MessageService 发布、查看、删除消息
type MessageService interface {
	Post(ctx context.Context, userID uint, text string) (*model.Message, error)
	Get(ctx context.Context, id uint) (*model.Message, error)
	// Delete 只有作者本人可以删除；消息已不存在时返回 ErrMessageNotFound
	Delete(ctx context.Context, requesterID, messageID uint) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]model.Message, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type messageService struct {
	messages repository.MessageRepository
	now      func() time.Time
}

func NewMessageService(messages repository.MessageRepository) MessageService {
	return &messageService{messages: messages, now: time.Now}
}

func (s *messageService) Post(ctx context.Context, userID uint, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "is required"}
	}
	if utf8.RuneCountInString(text) > model.MaxMessageLength {
		return nil, &ValidationError{Field: "text", Reason: "must be at most 140 characters"}
	}

	m := &model.Message{Text: text, Timestamp: s.now().UTC(), UserID: userID}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *messageService) Get(ctx context.Context, id uint) (*model.Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *messageService) Delete(ctx context.Context, requesterID, messageID uint) error {
	// 条件删除保证检查与删除原子
	deleted, err := s.messages.DeleteOwned(ctx, messageID, requesterID)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	logger.Warn("delete denied",
		zap.Uint("message_id", messageID),
		zap.Uint("owner_id", m.UserID),
		zap.Uint("requester_id", requesterID),
	)
	return ErrNotOwner
}

func (s *messageService) ListByUser(ctx context.Context, userID uint, limit int) ([]model.Message, error) {
	return s.messages.ListByUser(ctx, userID, limit)
}

func (s *messageService) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.messages.CountByUser(ctx, userID)
}
