package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
	pkgerrors "github.com/Eepsita12/online-lecture-scheduling-system/pkg/errors"
)

// LectureRepository 排课数据访问接口
type LectureRepository interface {
	// Create 插入即校验：(instructor_id, lecture_date) 已存在时返回 pkgerrors.ErrDuplicateKey
	Create(ctx context.Context, lecture *model.Lecture) error
	// List 按插入顺序返回全部排课，预加载课程与讲师
	List(ctx context.Context) ([]model.Lecture, error)
	// ListByInstructor 返回指定讲师的排课，预加载课程
	ListByInstructor(ctx context.Context, instructorID string) ([]model.Lecture, error)
}

type lectureRepo struct {
	db *gorm.DB
}

// NewLectureRepo 创建 LectureRepository 实例
func NewLectureRepo(db *gorm.DB) LectureRepository {
	return &lectureRepo{db: db}
}

func (r *lectureRepo) Create(ctx context.Context, lecture *model.Lecture) error {
	// 依赖 uq_lectures_instructor_date 唯一约束，检查与写入是同一条 INSERT
	err := r.db.WithContext(ctx).
		Omit("Course", "Instructor").
		Create(lecture).Error
	return pkgerrors.TranslateDuplicate(err)
}

func (r *lectureRepo) List(ctx context.Context) ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Instructor").
		Order("seq ASC").
		Find(&lectures).Error
	return lectures, err
}

func (r *lectureRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("instructor_id = ?", instructorID).
		Order("lecture_date ASC, seq ASC").
		Find(&lectures).Error
	return lectures, err
}
