package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/logger"
	"github.com/d60-Lab/warbler/pkg/response"
)

type messageRequest struct {
	Text string `form:"text"`
}

// NewMessageForm 发消息表单
// @Summary 发消息表单
// @Tags 消息
// @Success 200 {object} response.Response{data=formSpec}
// @Router /messages/new [get]
func (h *Handler) NewMessageForm(c *gin.Context) {
	response.Success(c, formSpec{
		Action: "/messages/new",
		Fields: []formField{{Name: "text", Type: "textarea", Required: true}},
		Submit: "Add my message!",
	})
}

// CreateMessage 发消息
// @Summary 发消息
// @Tags 消息
// @Accept x-www-form-urlencoded
// @Param text formData string true "消息内容，最多 140 字"
// @Success 302
// @Failure 400 {object} response.Response
// @Router /messages/new [post]
func (h *Handler) CreateMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	me := currentUser(c)
	if _, err := h.messageService.Post(c.Request.Context(), me.ID, req.Text); err != nil {
		fail(c, err)
		return
	}
	h.metrics.MessagesPosted.Inc()
	c.Redirect(http.StatusFound, userPath(me.ID))
}

// ShowMessage 查看单条消息
// @Summary 查看消息
// @Tags 消息
// @Param message_id path int true "消息ID"
// @Success 200 {object} response.Response{data=model.Message}
// @Failure 404 {object} response.Response
// @Router /messages/{message_id} [get]
func (h *Handler) ShowMessage(c *gin.Context) {
	id, ok := idParam(c, "message_id")
	if !ok {
		return
	}
	m, err := h.messageService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, m)
}

// DeleteMessage 删除自己的消息；非作者或消息已删除时不做任何修改
// @Summary 删除消息
// @Tags 消息
// @Param message_id path int true "消息ID"
// @Success 302
// @Router /messages/{message_id}/delete [post]
func (h *Handler) DeleteMessage(c *gin.Context) {
	id, ok := idParam(c, "message_id")
	if !ok {
		return
	}
	me := currentUser(c)
	err := h.messageService.Delete(c.Request.Context(), me.ID, id)
	switch {
	case err == nil:
		h.metrics.MessagesDeleted.Inc()
		c.Redirect(http.StatusFound, userPath(me.ID))
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrMessageNotFound):
		logger.Info("message delete refused",
			zap.Uint("user_id", me.ID), zap.Uint("message_id", id), zap.Error(err))
		redirectHome(c)
	default:
		fail(c, err)
	}
}
