package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/pkg/logger"
)

// SignupInput 注册表单
type SignupInput struct {
	Username string `form:"username" validate:"required,max=64"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=6,maxbytes=72"`
	ImageURL string `form:"image_url" validate:"omitempty,max=2048"`
}

// AuthService 注册与登录
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	// Authenticate 用户不存在或密码错误时返回 (nil, false, nil)
	Authenticate(ctx context.Context, username, password string) (*model.User, bool, error)
	VerifyPassword(ctx context.Context, userID uint, password string) (*model.User, bool, error)
}

type authService struct {
	users repository.UserRepository
	cost  int
}

// NewAuthService cost 超出 bcrypt 允许范围时使用默认值
func NewAuthService(users repository.UserRepository, cost int) AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &authService{users: users, cost: cost}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
		}
		return nil, err
	}
	u := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		ImageURL: in.ImageURL,
	}
	u.ApplyDefaults()

	// 并发注册时以唯一索引为准
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTaken
		}
		return nil, err
	}
	logger.Info("user signed up", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, &ValidationError{Field: "username", Reason: "is required"}
	}
	if password == "" {
		return nil, false, &ValidationError{Field: "password", Reason: "is required"}
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !checkPassword(u, password) {
		return nil, false, nil
	}
	return u, true, nil
}

func (s *authService) VerifyPassword(ctx context.Context, userID uint, password string) (*model.User, bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, err
	}
	if !checkPassword(u, password) {
		return nil, false, nil
	}
	return u, true, nil
}

func checkPassword(u *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
