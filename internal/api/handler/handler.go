package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/service"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/response"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/validation"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Course  *CourseHandler
	Lecture *LectureHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		User:    NewUserHandler(svc.User),
		Course:  NewCourseHandler(svc.Course),
		Lecture: NewLectureHandler(svc.Lecture),
		Export:  NewExportHandler(svc.Export),
	}
}

// bindJSON 绑定并校验请求体，失败时写入 400 与字段级详情
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", validation.ToDetails(err))
		return false
	}
	return true
}
