package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/jwt"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/keylock"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	User    UserService
	Course  CourseService
	Lecture LectureService
	Export  ExportService
}

// NewService 创建 Service 聚合
// blacklist 为 nil 时登出仅在客户端生效（Redis 不可用的降级模式）
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, jwtMgr, blacklist, logger),
		User:    NewUserService(repo, logger),
		Course:  NewCourseService(repo, logger),
		Lecture: NewLectureService(repo, keylock.New(), logger),
		Export:  NewExportService(repo, logger),
	}
}

// formatTime 统一以 UTC RFC3339 输出时间戳
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
