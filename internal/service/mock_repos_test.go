package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"
	pkgerrors "github.com/Eepsita12/online-lecture-scheduling-system/pkg/errors"
)

// ── Mock UserRepository ──
// 与数据库一致：邮箱唯一、全局仅一个管理员

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User // key: user_id
	nextID int
	// createErr 非空时 Create 直接返回该错误
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	user.Email = model.NormalizeEmail(user.Email)
	for _, u := range m.users {
		if u.Email == user.Email {
			return pkgerrors.ErrDuplicateKey
		}
		if user.Role == model.RoleAdmin && u.Role == model.RoleAdmin {
			return pkgerrors.ErrDuplicateKey
		}
	}

	m.nextID++
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", m.nextID)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.nextID, 0, time.UTC)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = model.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role model.Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*model.Course
	order   []string
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%d", len(m.order)+1)
	}
	m.courses[course.CourseID] = course
	m.order = append(m.order, course.CourseID)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]model.Course, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.courses[id])
	}
	return result, nil
}

// ── Mock LectureRepository ──
// Create 在锁内检查并插入，模拟唯一索引的原子性

type mockLectureRepo struct {
	mu       sync.Mutex
	lectures []*model.Lecture
	users    *mockUserRepo
	courses  *mockCourseRepo
	// listErr 非空时 List 直接返回该错误
	listErr error
}

func newMockLectureRepo(users *mockUserRepo, courses *mockCourseRepo) *mockLectureRepo {
	return &mockLectureRepo{users: users, courses: courses}
}

func (m *mockLectureRepo) Create(_ context.Context, lecture *model.Lecture) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.lectures {
		if l.InstructorID == lecture.InstructorID && l.LectureDate.Equal(lecture.LectureDate) {
			return pkgerrors.ErrDuplicateKey
		}
	}

	seq := int64(len(m.lectures) + 1)
	stored := *lecture
	stored.LectureID = fmt.Sprintf("lecture-%d", seq)
	stored.Seq = seq
	stored.CreatedAt = time.Date(2025, 1, 1, 0, 0, int(seq), 0, time.UTC)
	stored.Course, stored.Instructor = nil, nil
	m.lectures = append(m.lectures, &stored)

	lecture.LectureID = stored.LectureID
	lecture.Seq = stored.Seq
	lecture.CreatedAt = stored.CreatedAt
	return nil
}

func (m *mockLectureRepo) List(ctx context.Context) ([]model.Lecture, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.collect(ctx, func(*model.Lecture) bool { return true }, true)
}

func (m *mockLectureRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Lecture, error) {
	result, err := m.collect(ctx, func(l *model.Lecture) bool { return l.InstructorID == instructorID }, false)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].LectureDate.Before(result[j].LectureDate) })
	return result, nil
}

func (m *mockLectureRepo) collect(ctx context.Context, keep func(*model.Lecture) bool, withInstructor bool) ([]model.Lecture, error) {
	m.mu.Lock()
	snapshot := make([]model.Lecture, 0, len(m.lectures))
	for _, l := range m.lectures {
		if keep(l) {
			snapshot = append(snapshot, *l)
		}
	}
	m.mu.Unlock()

	for i := range snapshot {
		if c, err := m.courses.GetByID(ctx, snapshot[i].CourseID); err == nil {
			snapshot[i].Course = c
		}
		if withInstructor {
			if u, err := m.users.GetByID(ctx, snapshot[i].InstructorID); err == nil {
				snapshot[i].Instructor = u
			}
		}
	}
	return snapshot, nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Duration
	err     error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{entries: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if ttl > 0 {
		m.entries[jti] = ttl
	}
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.entries[jti]
	return ok, nil
}

// ── 测试辅助 ──

type testRepos struct {
	users    *mockUserRepo
	courses  *mockCourseRepo
	lectures *mockLectureRepo
}

func newTestRepository() (*repository.Repository, *testRepos) {
	users := newMockUserRepo()
	courses := newMockCourseRepo()
	lectures := newMockLectureRepo(users, courses)
	return &repository.Repository{
		User:    users,
		Course:  courses,
		Lecture: lectures,
	}, &testRepos{users: users, courses: courses, lectures: lectures}
}

var testLogger = zap.NewNop()
