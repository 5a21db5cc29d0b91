package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"
	pkgerrors "github.com/Eepsita12/online-lecture-scheduling-system/pkg/errors"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/keylock"
)

// ── 排课模块业务错误 ──

var (
	ErrInvalidLectureDate = errors.New("日期格式必须为 YYYY-MM-DD")
	ErrReferenceNotFound  = errors.New("引用的课程或讲师不存在")
	ErrScheduleConflict   = errors.New("该讲师当天已有课程安排")
)

// 引用类型
const (
	RefCourse     = "course"
	RefInstructor = "instructor"
)

// ReferenceNotFoundError 指明具体哪个引用不存在
type ReferenceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s 不存在", e.Kind, e.ID)
}

func (e *ReferenceNotFoundError) Is(target error) bool { return target == ErrReferenceNotFound }

// ScheduleConflictError 同一讲师同一天重复排课
type ScheduleConflictError struct {
	InstructorID string
	Date         string
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("讲师 %s 在 %s 已有课程安排", e.InstructorID, e.Date)
}

func (e *ScheduleConflictError) Is(target error) bool { return target == ErrScheduleConflict }

// LectureService 排课业务接口
//
// 不变量：
//   - 同一讲师同一日历日（UTC）最多一节课
//   - 排课一经创建不可修改或删除
type LectureService interface {
	Assign(ctx context.Context, req *dto.AssignLectureRequest, callerID string) (*dto.LectureResponse, error)
	ListAll(ctx context.Context) ([]dto.LectureResponse, error)
	ListForInstructor(ctx context.Context, instructorID string) ([]dto.LectureResponse, error)
}

type lectureService struct {
	repo   *repository.Repository
	locks  *keylock.Locker
	logger *zap.Logger
}

// NewLectureService 创建 LectureService 实例
func NewLectureService(repo *repository.Repository, locks *keylock.Locker, logger *zap.Logger) LectureService {
	if locks == nil {
		locks = keylock.New()
	}
	return &lectureService{repo: repo, locks: locks, logger: logger}
}

// ────────────────────── Assign ──────────────────────

func (s *lectureService) Assign(ctx context.Context, req *dto.AssignLectureRequest, callerID string) (*dto.LectureResponse, error) {
	// 1. 解析日期
	date, err := parseLectureDate(req.Date)
	if err != nil {
		return nil, err
	}
	dateStr := date.Format(model.DateLayout)

	// 2. 校验引用
	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Kind: RefCourse, ID: req.CourseID}
		}
		s.logger.Error("查询课程失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	instructor, err := s.repo.User.GetByID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Kind: RefInstructor, ID: req.InstructorID}
		}
		s.logger.Error("查询讲师失败", zap.String("instructor_id", req.InstructorID), zap.Error(err))
		return nil, err
	}
	if instructor.Role != model.RoleInstructor {
		return nil, &ReferenceNotFoundError{Kind: RefInstructor, ID: req.InstructorID}
	}

	// 3. 同一 (讲师, 日期) 串行写入；跨进程由唯一索引保证
	unlock := s.locks.Lock(req.InstructorID + "|" + dateStr)
	defer unlock()

	lecture := &model.Lecture{
		CourseID:     course.CourseID,
		InstructorID: instructor.UserID,
		LectureDate:  date,
	}
	if callerID != "" {
		lecture.CreatedBy = &callerID
	}

	if err := s.repo.Lecture.Create(ctx, lecture); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			s.logger.Info("排课冲突",
				zap.String("instructor_id", req.InstructorID),
				zap.String("date", dateStr),
			)
			return nil, &ScheduleConflictError{InstructorID: req.InstructorID, Date: dateStr}
		}
		s.logger.Error("创建排课失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("排课成功",
		zap.String("lecture_id", lecture.LectureID),
		zap.String("instructor_id", instructor.UserID),
		zap.String("date", dateStr),
	)

	lecture.Course = course
	lecture.Instructor = instructor
	resp := toLectureResponse(lecture, true)
	return &resp, nil
}

// ────────────────────── ListAll ──────────────────────

func (s *lectureService) ListAll(ctx context.Context) ([]dto.LectureResponse, error) {
	lectures, err := s.repo.Lecture.List(ctx)
	if err != nil {
		s.logger.Error("查询排课列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.LectureResponse, 0, len(lectures))
	for i := range lectures {
		list = append(list, toLectureResponse(&lectures[i], true))
	}
	return list, nil
}

// ────────────────────── ListForInstructor ──────────────────────

func (s *lectureService) ListForInstructor(ctx context.Context, instructorID string) ([]dto.LectureResponse, error) {
	lectures, err := s.repo.Lecture.ListByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询讲师排课失败", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.LectureResponse, 0, len(lectures))
	for i := range lectures {
		list = append(list, toLectureResponse(&lectures[i], false))
	}
	return list, nil
}

// ── 内部辅助方法 ──

// parseLectureDate 按 UTC 解析日历日
func parseLectureDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidLectureDate
	}
	return d, nil
}

func toLectureResponse(l *model.Lecture, withInstructor bool) dto.LectureResponse {
	resp := dto.LectureResponse{
		ID:        l.LectureID,
		Date:      l.DateString(),
		Course:    dto.CourseRef{ID: l.CourseID},
		CreatedAt: formatTime(l.CreatedAt),
	}
	if l.Course != nil {
		resp.Course.Name = l.Course.Name
	}
	if withInstructor {
		resp.Instructor = &dto.InstructorRef{ID: l.InstructorID}
		if l.Instructor != nil {
			resp.Instructor.Name = l.Instructor.Name
			resp.Instructor.Email = l.Instructor.Email
		}
	}
	return resp
}
