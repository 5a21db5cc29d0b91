package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/service"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/response"
)

// UserHandler 讲师管理 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CreateInstructor 创建讲师账号（管理员）
// POST /api/v1/instructors
func (h *UserHandler) CreateInstructor(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInstructorRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.userSvc.ProvisionInstructor(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			response.Conflict(c, 20002, "邮箱已被使用")
			return
		}
		response.InternalError(c)
		return
	}

	// 临时密码仅在本次响应中返回
	c.Header("Cache-Control", "no-store")
	response.Created(c, result)
}

// ListInstructors 讲师列表（管理员）
// GET /api/v1/instructors
func (h *UserHandler) ListInstructors(c *gin.Context) {
	list, err := h.userSvc.ListInstructors(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, list)
}
