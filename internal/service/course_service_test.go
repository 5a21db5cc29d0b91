package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
)

func TestCourseService_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepository()
	svc := NewCourseService(repo, testLogger)
	ctx := context.Background()

	img := "https://example.com/go.png"
	created, err := svc.Create(ctx, &dto.CreateCourseRequest{
		Name:        "  Go Basics ",
		Level:       "Beginner",
		Description: "intro",
		ImageURL:    &img,
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	if created.Name != "Go Basics" {
		t.Errorf("期望名称去除首尾空白，实际=%q", created.Name)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询课程失败: %v", err)
	}
	if got.Level != "Beginner" || got.ImageURL == nil || *got.ImageURL != img {
		t.Errorf("课程信息不符: %+v", got)
	}
}

func TestCourseService_GetByID_NotFound(t *testing.T) {
	repo, _ := newTestRepository()
	svc := NewCourseService(repo, testLogger)

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestCourseService_List(t *testing.T) {
	repo, _ := newTestRepository()
	svc := NewCourseService(repo, testLogger)
	ctx := context.Background()

	list, err := svc.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("期望空列表，实际=%v err=%v", list, err)
	}

	for _, name := range []string{"A", "B"} {
		if _, err := svc.Create(ctx, &dto.CreateCourseRequest{Name: name, Level: "Advanced", Description: "d"}, ""); err != nil {
			t.Fatalf("创建课程失败: %v", err)
		}
	}
	list, _ = svc.List(ctx)
	if len(list) != 2 || list[0].Name != "A" {
		t.Errorf("课程列表不符: %+v", list)
	}
}
