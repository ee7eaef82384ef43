package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blues/afs/internal/auth"
	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/database"
	"github.com/blues/afs/internal/logger"
	"github.com/blues/afs/internal/logic"
	"github.com/blues/afs/internal/router"
	"github.com/blues/afs/internal/scheduler"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is empty, all authenticated requests will be rejected")
	}

	// 组装业务逻辑和路由
	svc := logic.NewServices(db, cfg)
	r := router.Setup(svc, auth.NewTokenManager(cfg.Auth), cfg)

	// 启动定时任务
	tasks, err := scheduler.Start(
		scheduler.NewBadgeRetryJob(svc.Evaluations, svc.Pledges, svc.Evaluator, cfg.Task),
	)
	if err != nil {
		logger.Fatal("Failed to start scheduler: %v", err)
	}

	// 启动服务器
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	tasks.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server exited")
}
