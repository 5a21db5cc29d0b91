package service

import "github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"

// NewMemoryRepository 供外部测试包组装完整服务栈
func NewMemoryRepository() *repository.Repository {
	repo, _ := newTestRepository()
	return repo
}
