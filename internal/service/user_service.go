package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"
	pkgerrors "github.com/Eepsita12/online-lecture-scheduling-system/pkg/errors"
)

// tempPasswordLength 讲师初始密码长度
const tempPasswordLength = 10

// UserService 讲师管理业务接口
type UserService interface {
	// ProvisionInstructor 创建讲师账号，临时密码仅在返回值中出现一次
	ProvisionInstructor(ctx context.Context, req *dto.CreateInstructorRequest, callerID string) (*dto.CreateInstructorResponse, error)
	ListInstructors(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── ProvisionInstructor ──────────────────────

func (s *userService) ProvisionInstructor(ctx context.Context, req *dto.CreateInstructorRequest, callerID string) (*dto.CreateInstructorResponse, error) {
	email := model.NormalizeEmail(req.Email)

	// 检查邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	tempPassword, err := generateTempPassword(tempPasswordLength)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleInstructor,
	}
	if callerID != "" {
		user.CreatedBy = &callerID
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发创建时由唯一索引兜底
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建讲师失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("讲师账号已创建",
		zap.String("user_id", user.UserID),
		zap.String("created_by", callerID),
	)

	return &dto.CreateInstructorResponse{
		User:         *toUserResponse(user),
		TempPassword: tempPassword,
	}, nil
}

// ────────────────────── ListInstructors ──────────────────────

func (s *userService) ListInstructors(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListByRole(ctx, model.RoleInstructor)
	if err != nil {
		s.logger.Error("查询讲师列表失败", zap.Error(err))
		return nil, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, *toUserResponse(&users[i]))
	}
	return list, nil
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = tempPasswordLength
	}

	pick := func(charset string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return 0, err
		}
		return charset[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error

	// 保证至少1个字母+1个数字
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
