package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/response"
)

// Handler 聚合所有 HTTP 处理函数依赖的服务
type Handler struct {
	authService     service.AuthService
	userService     service.UserService
	relService      service.RelationshipService
	messageService  service.MessageService
	timelineService service.TimelineService
	sessions        *middleware.SessionManager
	metrics         *middleware.Metrics
}

func New(
	auth service.AuthService,
	users service.UserService,
	relations service.RelationshipService,
	messages service.MessageService,
	timeline service.TimelineService,
	sessions *middleware.SessionManager,
	metrics *middleware.Metrics,
) *Handler {
	return &Handler{
		authService:     auth,
		userService:     users,
		relService:      relations,
		messageService:  messages,
		timelineService: timeline,
		sessions:        sessions,
		metrics:         metrics,
	}
}

// formField 表单字段描述，前端据此渲染
type formField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type formSpec struct {
	Action string      `json:"action"`
	Fields []formField `json:"fields"`
	Submit string      `json:"submit"`
}

// currentUser RequireSession 之后的路由可直接使用
func currentUser(c *gin.Context) *model.User {
	u, _ := middleware.CurrentUser(c)
	return u
}

// idParam 非法 id 直接按 404 处理
func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		response.NotFound(c, "not found")
		return 0, false
	}
	return uint(n), true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func userPath(id uint) string { return fmt.Sprintf("/users/%d", id) }

func redirectHome(c *gin.Context) { c.Redirect(http.StatusFound, "/") }

// fail 把服务层错误映射成 HTTP 响应
func fail(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Error())
	case errors.Is(err, service.ErrTaken):
		response.Conflict(c, "Username or email already taken")
	case errors.Is(err, service.ErrFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrMessageNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrWrongPassword):
		redirectHome(c)
	default:
		response.InternalError(c, err)
	}
}
