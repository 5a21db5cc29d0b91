package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eepsita12/online-lecture-scheduling-system/config"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/api/handler"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/api/middleware"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时登录限流降级为放行
//
// 访问策略集中在此声明：
//   - 无需认证：注册（仅首个管理员）、登录
//   - 任意已认证用户：登出、个人信息、课程查询、我的排课
//   - 仅管理员：讲师管理、创建课程、排课、全部排课、导出
func Setup(cfg *config.Config, h *handler.Handler, verifier middleware.TokenVerifier, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	adminOnly := middleware.RoleAuth(model.RoleAdmin)
	loginLimit := middleware.RateLimit(limiter, cfg.Server.RateLimit.LoginLimit, cfg.Server.RateLimit.LoginWindow, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", loginLimit, h.Auth.Register)
			auth.POST("/login", loginLimit, h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(verifier))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 讲师模块
			instructors := authorized.Group("/instructors", adminOnly)
			{
				instructors.POST("", h.User.CreateInstructor)
				instructors.GET("", h.User.ListInstructors)
			}

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.GET("/:id", h.Course.GetByID)
				courses.POST("", adminOnly, h.Course.Create)
			}

			// 排课模块
			lectures := authorized.Group("/lectures")
			{
				lectures.GET("/my", h.Lecture.ListMine)
				lectures.GET("", adminOnly, h.Lecture.ListAll)
				lectures.POST("", adminOnly, h.Lecture.Assign)
			}

			// 导出模块
			export := authorized.Group("/export", adminOnly)
			{
				export.GET("/lectures", h.Export.ExportLectures)
			}
		}
	}

	return r
}
