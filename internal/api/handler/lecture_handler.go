package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/service"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/response"
)

// LectureHandler 排课模块 HTTP 处理器
type LectureHandler struct {
	lectureSvc service.LectureService
}

// NewLectureHandler 创建 LectureHandler
func NewLectureHandler(lectureSvc service.LectureService) *LectureHandler {
	return &LectureHandler{lectureSvc: lectureSvc}
}

// Assign 为讲师排课（管理员）
// POST /api/v1/lectures
func (h *LectureHandler) Assign(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignLectureRequest
	if !bindJSON(c, &req) {
		return
	}

	lecture, err := h.lectureSvc.Assign(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.Created(c, lecture)
}

// ListAll 全部排课（管理员）
// GET /api/v1/lectures
func (h *LectureHandler) ListAll(c *gin.Context) {
	list, err := h.lectureSvc.ListAll(c.Request.Context())
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OKList(c, list)
}

// ListMine 当前用户自己的排课
// GET /api/v1/lectures/my
func (h *LectureHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.lectureSvc.ListForInstructor(c.Request.Context(), userID)
	if err != nil {
		h.handleLectureError(c, err)
		return
	}

	response.OKList(c, list)
}

func (h *LectureHandler) handleLectureError(c *gin.Context, err error) {
	var conflict *service.ScheduleConflictError
	var refErr *service.ReferenceNotFoundError

	switch {
	case errors.As(err, &conflict):
		response.ErrorWithData(c, http.StatusConflict, 40002, "该讲师当天已有课程安排", dto.ScheduleConflictData{
			InstructorID: conflict.InstructorID,
			Date:         conflict.Date,
		})
	case errors.As(err, &refErr):
		response.ErrorWithDetails(c, http.StatusNotFound, 40001, "引用的课程或讲师不存在", map[string]string{
			refErr.Kind + "_id": refErr.ID,
		})
	case errors.Is(err, service.ErrReferenceNotFound):
		response.NotFound(c, 40001, "引用的课程或讲师不存在")
	case errors.Is(err, service.ErrInvalidLectureDate):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", map[string]string{
			"date": "必须是 YYYY-MM-DD 格式的日期",
		})
	default:
		response.InternalError(c)
	}
}
