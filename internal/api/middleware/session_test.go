package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/warbler/config"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

func newManager() *SessionManager {
	return NewSessionManager(config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "warbler_session",
	})
}

func TestIssueParse(t *testing.T) {
	m := newManager()
	tok, err := m.Issue(7)
	require.NoError(t, err)

	id, err := m.Parse(tok)
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)

	_, err = m.Parse(tok + "x")
	assert.ErrorIs(t, err, ErrInvalidSession)

	other := NewSessionManager(config.SessionConfig{Secret: "other", TTL: time.Hour, CookieName: "c"})
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParse_Expired(t *testing.T) {
	m := newManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Issue(1)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func sessionRouter(m *SessionManager, users map[uint]*model.User) *gin.Engine {
	r := gin.New()
	r.Use(m.Middleware(func(_ context.Context, id uint) (*model.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, service.ErrUserNotFound
	}))
	r.GET("/open", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.String(http.StatusOK, "anon")
			return
		}
		c.String(http.StatusOK, u.Username)
	})
	r.GET("/private", RequireSession(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestMiddleware(t *testing.T) {
	m := newManager()
	r := sessionRouter(m, map[uint]*model.User{1: {ID: 1, Username: "testuser"}})
	tok, err := m.Issue(1)
	require.NoError(t, err)
	gone, err := m.Issue(2)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"anonymous open", "/open", func(*http.Request) {}, http.StatusOK, "anon"},
		{"cookie", "/open", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "warbler_session", Value: tok}) }, http.StatusOK, "testuser"},
		{"bearer", "/open", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK, "testuser"},
		{"tampered", "/open", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "warbler_session", Value: tok[:len(tok)-2]}) }, http.StatusOK, "anon"},
		{"deleted user", "/open", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "warbler_session", Value: gone}) }, http.StatusOK, "anon"},
		{"private anonymous", "/private", func(*http.Request) {}, http.StatusFound, ""},
		{"private signed in", "/private", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "warbler_session", Value: tok}) }, http.StatusOK, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusFound {
				assert.Equal(t, "/", w.Header().Get("Location"))
				return
			}
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}

func TestLoginLogoutCookies(t *testing.T) {
	m := newManager()
	r := gin.New()
	r.GET("/in", func(c *gin.Context) { _ = m.Login(c, 3) })
	r.GET("/out", func(c *gin.Context) { m.Logout(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/in", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "warbler_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	id, err := m.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.EqualValues(t, 3, id)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/out", nil))
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
