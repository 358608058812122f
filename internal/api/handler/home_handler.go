package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/pkg/response"
)

const signupPrompt = "Sign up now to get your own personalized timeline!"

type homeView struct {
	SignedIn bool            `json:"signed_in"`
	Prompt   string          `json:"prompt,omitempty"`
	User     *model.User     `json:"user,omitempty"`
	Messages []model.Message `json:"messages,omitempty"`
}

// Home 首页
// @Summary 首页：匿名时返回注册提示，登录后返回时间线
// @Tags 页面
// @Produce json
// @Success 200 {object} response.Response{data=homeView}
// @Router / [get]
func (h *Handler) Home(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Success(c, homeView{Prompt: signupPrompt})
		return
	}
	msgs, err := h.timelineService.Home(c.Request.Context(), u.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, homeView{SignedIn: true, User: u, Messages: msgs})
}
