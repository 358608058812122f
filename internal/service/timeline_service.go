package service

import (
	"context"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

// TimelineLimit 首页时间线条数
const TimelineLimit = 100

// TimelineService 拉模式时间线：自己与关注对象的消息按时间倒序合并
type TimelineService interface {
	Home(ctx context.Context, userID uint) ([]model.Message, error)
}

type timelineService struct {
	relations RelationshipService
	messages  repository.MessageRepository
}

func NewTimelineService(relations RelationshipService, messages repository.MessageRepository) TimelineService {
	return &timelineService{relations: relations, messages: messages}
}

func (s *timelineService) Home(ctx context.Context, userID uint) ([]model.Message, error) {
	ids, err := s.relations.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors := make([]uint, 0, len(ids)+1)
	authors = append(authors, userID)
	authors = append(authors, ids...)
	return s.messages.ListByUsers(ctx, authors, TimelineLimit)
}
