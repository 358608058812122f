package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/pkg/response"
)

type relationList struct {
	User     *model.User  `json:"user"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	List     []model.User `json:"list"`
}

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Param follow_id path int true "被关注的用户ID"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/follow/{follow_id} [post]
func (h *Handler) Follow(c *gin.Context) {
	targetID, ok := idParam(c, "follow_id")
	if !ok {
		return
	}
	me := currentUser(c)
	if err := h.relService.Follow(c.Request.Context(), me.ID, targetID); err != nil {
		fail(c, err)
		return
	}
	h.metrics.Follows.WithLabelValues("follow").Inc()
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Param follow_id path int true "被关注的用户ID"
// @Success 302
// @Router /users/stop-following/{follow_id} [post]
func (h *Handler) Unfollow(c *gin.Context) {
	targetID, ok := idParam(c, "follow_id")
	if !ok {
		return
	}
	me := currentUser(c)
	if err := h.relService.Unfollow(c.Request.Context(), me.ID, targetID); err != nil {
		fail(c, err)
		return
	}
	h.metrics.Follows.WithLabelValues("unfollow").Inc()
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=relationList}
// @Router /users/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	h.listRelations(c, h.relService.ListFollowing)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=relationList}
// @Router /users/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	h.listRelations(c, h.relService.ListFollowers)
}

type listFunc func(ctx context.Context, userID uint, page, pageSize int) ([]model.User, error)

func (h *Handler) listRelations(c *gin.Context, list listFunc) {
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	u, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pageParams(c)
	users, err := list(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, relationList{User: u, Page: page, PageSize: pageSize, List: users})
}
