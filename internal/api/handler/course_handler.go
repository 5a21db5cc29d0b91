package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/service"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create 创建课程（管理员）
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, course)
}

// GetByID 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) GetByID(c *gin.Context) {
	course, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 30001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, course)
}

// List 课程列表
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	list, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, list)
}
