package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/logger"
	"github.com/d60-Lab/warbler/pkg/response"
)

type profileUpdateRequest struct {
	service.ProfileInput
	Password string `form:"password"`
}

type editProfileView struct {
	User *model.User `json:"user"`
	Form formSpec    `json:"form"`
}

// Search 按用户名搜索
// @Summary 用户搜索
// @Tags 用户
// @Param q query string false "用户名关键字，空表示全部"
// @Success 200 {object} response.Response{data=[]model.User}
// @Router /users [get]
func (h *Handler) Search(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, users)
}

// ShowUser 用户主页
// @Summary 用户主页：资料、计数与最新消息
// @Tags 用户
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 404 {object} response.Response
// @Router /users/{user_id} [get]
func (h *Handler) ShowUser(c *gin.Context) {
	id, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	p, err := h.userService.Profile(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// EditProfileForm 当前用户的资料编辑表单
// @Summary 资料编辑表单
// @Tags 用户
// @Success 200 {object} response.Response{data=editProfileView}
// @Router /users/profile [get]
func (h *Handler) EditProfileForm(c *gin.Context) {
	response.Success(c, editProfileView{
		User: currentUser(c),
		Form: formSpec{
			Action: "/users/profile",
			Fields: []formField{
				{Name: "username", Type: "text"},
				{Name: "email", Type: "email"},
				{Name: "image_url", Type: "url"},
				{Name: "header_image_url", Type: "url"},
				{Name: "bio", Type: "textarea"},
				{Name: "location", Type: "text"},
				{Name: "password", Type: "password", Required: true},
			},
			Submit: "Edit this user!",
		},
	})
}

// UpdateProfile 修改资料，需要当前密码
// @Summary 修改资料
// @Tags 用户
// @Accept x-www-form-urlencoded
// @Param password formData string true "当前密码"
// @Param username formData string false "新用户名"
// @Param email formData string false "新邮箱"
// @Param bio formData string false "简介"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/profile [post]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	me := currentUser(c)
	u, err := h.userService.UpdateProfile(c.Request.Context(), me.ID, req.Password, req.ProfileInput)
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, userPath(u.ID))
}

// DeleteUser 注销当前账号
// @Summary 注销账号
// @Tags 用户
// @Success 302
// @Router /users/delete [post]
func (h *Handler) DeleteUser(c *gin.Context) {
	me := currentUser(c)
	if err := h.userService.Delete(c.Request.Context(), me.ID); err != nil {
		fail(c, err)
		return
	}
	logger.Info("account closed", zap.Uint("user_id", me.ID))
	h.sessions.Logout(c)
	c.Redirect(http.StatusFound, "/signup")
}
