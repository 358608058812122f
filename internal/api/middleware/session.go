package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/logger"
	"github.com/d60-Lab/warbler/pkg/response"
)

// CurrUserKey gin 上下文中当前登录用户的键，同时也是 token 里的 claim 名
const CurrUserKey = "curr_user"

var ErrInvalidSession = errors.New("invalid session")

// Claims 会话 token 载荷
type Claims struct {
	UserID uint `json:"curr_user"`
	jwt.RegisteredClaims
}

// UserLoader 按 id 取用户；用户已删除时返回 service.ErrUserNotFound
type UserLoader func(ctx context.Context, id uint) (*model.User, error)

// SessionManager 用 HS256 JWT 作为会话，放在 cookie 里
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewSessionManager(cfg config.SessionConfig) *SessionManager {
	return &SessionManager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}
}

func (m *SessionManager) CookieName() string { return m.cookieName }

// Issue 签发会话 token
func (m *SessionManager) Issue(userID uint) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse 校验签名与过期时间，返回 token 中的用户 id
func (m *SessionManager) Parse(token string) (uint, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidSession
	}
	return claims.UserID, nil
}

// Login 签发 token 并写入 cookie
func (m *SessionManager) Login(c *gin.Context, userID uint) error {
	token, err := m.Issue(userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return nil
}

// Logout 清除会话 cookie
func (m *SessionManager) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
	c.Set(CurrUserKey, nil)
}

func (m *SessionManager) token(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	t, _ := c.Cookie(m.cookieName)
	return t
}

// Middleware 解析会话并把当前用户放进上下文；无效会话按匿名处理
func (m *SessionManager) Middleware(load UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := m.token(c)
		if raw == "" {
			c.Next()
			return
		}
		id, err := m.Parse(raw)
		if err != nil {
			logger.Debug("session rejected", zap.Error(err))
			c.Next()
			return
		}
		u, err := load(c.Request.Context(), id)
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			logger.Debug("session user gone", zap.Uint("user_id", id))
		case err != nil:
			response.InternalError(c, err)
			c.Abort()
			return
		default:
			c.Set(CurrUserKey, u)
		}
		c.Next()
	}
}

// RequireSession 未登录时重定向到首页
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 返回当前登录用户
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(CurrUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok && u != nil
}
