// admin 运维命令行：初始化管理员、执行数据库迁移
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Eepsita12/online-lecture-scheduling-system/config"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/dto"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/service"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/database"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/jwt"
	applogger "github.com/Eepsita12/online-lecture-scheduling-system/pkg/logger"
	"github.com/Eepsita12/online-lecture-scheduling-system/pkg/validation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "admin",
		Short:        "课程排课系统运维工具",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")

	root.AddCommand(newCreateCmd(opts), newMigrateCmd(opts))
	return root
}

// ── create ──

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var req dto.RegisterAdminRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "初始化唯一的管理员账号",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("LECTURE_ADMIN_PASSWORD")
			}

			validation.Init()
			if err := binding.Validator.ValidateStruct(&req); err != nil {
				for field, msg := range validation.ToDetails(err) {
					cmd.PrintErrf("  %s: %s\n", field, msg)
				}
				return errors.New("参数校验失败")
			}

			env, err := bootstrap(opts.configPath)
			if err != nil {
				return err
			}
			defer env.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			svc := service.NewAuthService(repository.NewRepository(env.db), jwt.NewManager(&env.cfg.Auth), nil, env.logger)
			user, err := svc.RegisterAdministrator(ctx, &req)
			if err != nil {
				return err
			}

			cmd.Printf("管理员已创建: id=%s email=%s\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "管理员姓名")
	cmd.Flags().StringVar(&req.Email, "email", "", "管理员邮箱")
	cmd.Flags().StringVar(&req.Password, "password", "", "管理员密码（也可通过 LECTURE_ADMIN_PASSWORD 提供）")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// ── migrate ──

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := bootstrap(opts.configPath)
			if err != nil {
				return err
			}
			defer env.close()

			cmd.Println("数据库迁移完成")
			return nil
		},
	}
}

// ── 公共初始化 ──

type cliEnv struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger
}

// bootstrap 加载配置、连接数据库并执行迁移
func bootstrap(configPath string) (*cliEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &cliEnv{cfg: cfg, db: db, logger: logger}, nil
}

func (e *cliEnv) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
	_ = e.logger.Sync()
}
