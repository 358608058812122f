package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/logger"
	"github.com/d60-Lab/warbler/pkg/response"
)

type loginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// SignupForm 注册表单描述
// @Summary 注册表单
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response{data=formSpec}
// @Router /signup [get]
func (h *Handler) SignupForm(c *gin.Context) {
	response.Success(c, formSpec{
		Action: "/signup",
		Fields: []formField{
			{Name: "username", Type: "text", Required: true},
			{Name: "email", Type: "email", Required: true},
			{Name: "password", Type: "password", Required: true},
			{Name: "image_url", Type: "url"},
		},
		Submit: "Sign me up!",
	})
}

// Signup 注册并登录
// @Summary 注册
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param email formData string true "邮箱"
// @Param password formData string true "密码，至少 6 位"
// @Param image_url formData string false "头像地址"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in service.SignupInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.authService.Signup(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.sessions.Login(c, u.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	h.metrics.Signups.Inc()
	c.Redirect(http.StatusFound, "/")
}

// LoginForm 登录表单描述
// @Summary 登录表单
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response{data=formSpec}
// @Router /login [get]
func (h *Handler) LoginForm(c *gin.Context) {
	response.Success(c, formSpec{
		Action: "/login",
		Fields: []formField{
			{Name: "username", Type: "text", Required: true},
			{Name: "password", Type: "password", Required: true},
		},
		Submit: "Log in",
	})
}

// Login 登录
// @Summary 登录
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, ok, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.Logins.WithLabelValues("error").Inc()
		fail(c, err)
		return
	}
	if !ok {
		h.metrics.Logins.WithLabelValues("failure").Inc()
		logger.Info("login failed", zap.String("username", req.Username))
		response.Unauthorized(c, "Invalid credentials.")
		return
	}
	if err := h.sessions.Login(c, u.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	h.metrics.Logins.WithLabelValues("success").Inc()
	c.Redirect(http.StatusFound, "/")
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 认证
// @Success 302
// @Router /logout [get]
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c)
	c.Redirect(http.StatusFound, "/login")
}
