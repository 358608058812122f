package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
)

// RelationCounts 个人主页上展示的关系计数
type RelationCounts struct {
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
}

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, userID, otherID uint) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error)
	ListFollowing(ctx context.Context, userID uint, page, pageSize int) ([]model.User, error)
	ListFollowers(ctx context.Context, userID uint, page, pageSize int) ([]model.User, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	Counts(ctx context.Context, userID uint) (RelationCounts, error)
}

type relationshipService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	cache   *cache.RelationCache
}

func NewRelationshipService(users repository.UserRepository, follows repository.FollowRepository, relCache *cache.RelationCache) RelationshipService {
	return &relationshipService{users: users, follows: follows, cache: relCache}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrFollowSelf
	}
	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.follows.Create(ctx, followerID, followedID); err != nil {
		return err
	}
	s.invalidate(ctx, followerID, followedID)
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if err := s.follows.Delete(ctx, followerID, followedID); err != nil {
		return err
	}
	s.invalidate(ctx, followerID, followedID)
	return nil
}

func (s *relationshipService) invalidate(ctx context.Context, followerID, followedID uint) {
	s.cache.Invalidate(ctx, cache.Following, followerID)
	s.cache.Invalidate(ctx, cache.Followers, followedID)
}

// IsFollowing userID 是否关注了 otherID
func (s *relationshipService) IsFollowing(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.follows.Exists(ctx, userID, otherID)
}

// IsFollowedBy otherID 是否关注了 userID
func (s *relationshipService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.follows.Exists(ctx, otherID, userID)
}

// ListFollowing 未启用缓存时直接走联表分页，否则用缓存的 id 索引分页后批量取用户
func (s *relationshipService) ListFollowing(ctx context.Context, userID uint, page, pageSize int) ([]model.User, error) {
	if !s.cache.Enabled() {
		offset, limit := pageOffset(page, pageSize)
		return s.follows.ListFollowing(ctx, userID, offset, limit)
	}
	ids, err := s.cache.IDs(ctx, cache.Following, userID, func(ctx context.Context) ([]uint, error) {
		return s.follows.FollowingIDs(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.users.GetByIDs(ctx, pageIDs(ids, page, pageSize))
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID uint, page, pageSize int) ([]model.User, error) {
	if !s.cache.Enabled() {
		offset, limit := pageOffset(page, pageSize)
		return s.follows.ListFollowers(ctx, userID, offset, limit)
	}
	ids, err := s.cache.IDs(ctx, cache.Followers, userID, func(ctx context.Context) ([]uint, error) {
		return s.follows.FollowerIDs(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.users.GetByIDs(ctx, pageIDs(ids, page, pageSize))
}

func (s *relationshipService) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.cache.IDs(ctx, cache.Following, userID, func(ctx context.Context) ([]uint, error) {
		return s.follows.FollowingIDs(ctx, userID)
	})
}

func (s *relationshipService) Counts(ctx context.Context, userID uint) (RelationCounts, error) {
	var c RelationCounts
	var err error
	if c.Following, err = s.follows.CountFollowing(ctx, userID); err != nil {
		return c, err
	}
	if c.Followers, err = s.follows.CountFollowers(ctx, userID); err != nil {
		return c, err
	}
	return c, nil
}

// pageOffset 把页码换算成 offset/limit；pageSize <= 0 表示不分页
func pageOffset(page, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize, pageSize
}

// pageIDs pageSize <= 0 时返回全部
func pageIDs(ids []uint, page, pageSize int) []uint {
	if pageSize <= 0 {
		return ids
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(ids) {
		return nil
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}
