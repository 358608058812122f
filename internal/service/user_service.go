package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/cache"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/pkg/logger"
)

// ProfileMessageLimit 个人主页展示的消息条数
const ProfileMessageLimit = 100

// Profile 个人主页数据
type Profile struct {
	User     *model.User     `json:"user"`
	Counts   ProfileCounts   `json:"counts"`
	Messages []model.Message `json:"messages"`
}

type ProfileCounts struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
}

// ProfileInput 资料编辑表单；空字段表示不修改
type ProfileInput struct {
	Username       string `form:"username" validate:"omitempty,max=64"`
	Email          string `form:"email" validate:"omitempty,email,max=255"`
	ImageURL       string `form:"image_url" validate:"omitempty,max=2048"`
	HeaderImageURL string `form:"header_image_url" validate:"omitempty,max=2048"`
	Bio            string `form:"bio" validate:"omitempty,max=500"`
	Location       string `form:"location" validate:"omitempty,max=100"`
}

type UserService interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	Profile(ctx context.Context, id uint) (*Profile, error)
	Search(ctx context.Context, q string) ([]model.User, error)
	UpdateProfile(ctx context.Context, userID uint, password string, in ProfileInput) (*model.User, error)
	Delete(ctx context.Context, userID uint) error
}

type userService struct {
	users     repository.UserRepository
	messages  repository.MessageRepository
	follows   repository.FollowRepository
	relations RelationshipService
	auth      AuthService
	cache     *cache.RelationCache
}

func NewUserService(users repository.UserRepository, messages repository.MessageRepository, follows repository.FollowRepository, relations RelationshipService, auth AuthService, relCache *cache.RelationCache) UserService {
	return &userService{users: users, messages: messages, follows: follows, relations: relations, auth: auth, cache: relCache}
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) Profile(ctx context.Context, id uint) (*Profile, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rc, err := s.relations.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := s.messages.CountByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByUser(ctx, id, ProfileMessageLimit)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:     u,
		Counts:   ProfileCounts{Messages: n, Following: rc.Following, Followers: rc.Followers},
		Messages: msgs,
	}, nil
}

func (s *userService) Search(ctx context.Context, q string) ([]model.User, error) {
	return s.users.Search(ctx, q, 0, 0)
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, password string, in ProfileInput) (*model.User, error) {
	u, ok, err := s.auth.VerifyPassword(ctx, userID, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPassword
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if in.Username != "" || in.Email != "" {
		username, email := u.Username, u.Email
		if in.Username != "" {
			username = in.Username
		}
		if in.Email != "" {
			email = in.Email
		}
		taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email, u.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrTaken
		}
		u.Username, u.Email = username, email
	}
	if in.ImageURL != "" {
		u.ImageURL = in.ImageURL
	}
	if in.HeaderImageURL != "" {
		u.HeaderImageURL = in.HeaderImageURL
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if in.Location != "" {
		u.Location = in.Location
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTaken
		}
		return nil, err
	}
	return u, nil
}

// Delete 删除账号及其消息、关注边，并清理相关缓存
// 受影响的 id 直接从存储读取，不依赖可能过期的缓存
func (s *userService) Delete(ctx context.Context, userID uint) error {
	followerIDs, err := s.follows.FollowerIDs(ctx, userID)
	if err != nil {
		return err
	}
	followingIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.cache.Invalidate(ctx, cache.Following, append(followerIDs, userID)...)
	s.cache.Invalidate(ctx, cache.Followers, append(followingIDs, userID)...)
	logger.Info("user deleted", zap.Uint("user_id", userID))
	return nil
}
