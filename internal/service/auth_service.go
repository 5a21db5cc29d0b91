package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"
	pkgerrors "github.com/Eepsita12/online-lecture-scheduling-system/pkg/errors"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被使用")
	ErrAdminAlreadyExists = errors.New("管理员已存在，注册入口已关闭")
	ErrTokenRevoked       = errors.New("token 已注销")
)

// TokenBlacklist Token 黑名单存储（由 pkg/redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	RegisterAdministrator(ctx context.Context, req *dto.RegisterAdminRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// VerifyToken 校验签名、有效期与黑名单，返回 jwt.ErrTokenInvalid / jwt.ErrTokenExpired / ErrTokenRevoked
	VerifyToken(ctx context.Context, token string) (*jwt.Claims, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger

	bootstrapMu sync.Mutex
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── RegisterAdministrator ──────────────────────

func (s *authService) RegisterAdministrator(ctx context.Context, req *dto.RegisterAdminRequest) (*dto.UserResponse, error) {
	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()

	// 系统只允许一个管理员，跨进程由 uq_users_single_admin 兜底。
	// 入口关闭后不再查询邮箱，避免泄露账号是否存在
	count, err := s.repo.User.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		s.logger.Error("统计管理员失败", zap.Error(err))
		return nil, err
	}
	if count > 0 {
		return nil, ErrAdminAlreadyExists
	}

	email := model.NormalizeEmail(req.Email)

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	admin := &model.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, s.classifyAdminConflict(ctx, email)
		}
		s.logger.Error("创建管理员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("管理员初始化完成", zap.String("user_id", admin.UserID))
	return toUserResponse(admin), nil
}

// classifyAdminConflict 唯一约束冲突可能来自邮箱或单管理员索引，管理员已存在时优先返回入口关闭
func (s *authService) classifyAdminConflict(ctx context.Context, email string) error {
	if n, err := s.repo.User.CountByRole(ctx, model.RoleAdmin); err != nil || n > 0 {
		return ErrAdminAlreadyExists
	}
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return ErrEmailExists
	}
	return ErrAdminAlreadyExists
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 邮箱不存在时同样执行一次哈希比较，避免通过耗时区分
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(req.Password))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Role.Valid() {
		s.logger.Error("用户角色非法", zap.String("user_id", user.UserID), zap.String("role", string(user.Role)))
		return nil, ErrInvalidCredentials
	}

	// 3. 签发 Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
		Role:        string(user.Role),
		User:        *toUserResponse(user),
	}, nil
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue []byte
)

func dummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = bcrypt.GenerateFromPassword([]byte("lecture-scheduling-dummy"), bcrypt.DefaultCost)
	})
	return dummyHashValue
}

// ────────────────────── VerifyToken ──────────────────────

func (s *authService) VerifyToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// Redis 异常时降级放行，签名与有效期已校验
			s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("写入 Token 黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ── 内部辅助方法 ──

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: formatTime(user.CreatedAt),
	}
}
