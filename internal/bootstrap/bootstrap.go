package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/observabil/foundry/internal/app"
	"github.com/observabil/foundry/internal/engine/conf"
	"github.com/observabil/foundry/pkg/cache"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/database"
	"github.com/observabil/foundry/pkg/log"
	"github.com/observabil/foundry/pkg/retry"
	"github.com/observabil/foundry/pkg/safe"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/25 21:40
 * @file: bootstrap.go
 * @description: 进程装配与生命周期
 */

// InitAppFunc init app function type
type InitAppFunc func(appCtx *ctx.Context, appConf conf.AppConfig, logger *zap.Logger) (*app.App, func(), error)

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(confDir string, initApp InitAppFunc) (*app.App, func(), error) {
	// load config
	appConf := conf.NewConf(confDir)

	// init logger
	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, nil, err
	}

	// init Redis, MongoDB, context
	// 启动窗口内依赖可能还没就绪（容器编排常态），指数退避重试
	var redisClient *redis.Client
	err = retry.Do(context.Background(), func(context.Context) error {
		redisClient, err = cache.NewRedis(appConf.Redis)
		return err
	}, retry.WithMaxAttempts(5), retry.WithBackoff(retry.Exponential(time.Second, 10*time.Second)), retry.WithJitter(retry.FullJitter))
	if err != nil {
		return nil, nil, fmt.Errorf("init redis: %w", err)
	}

	var mongoClient *database.MongoClient
	err = retry.Do(context.Background(), func(c context.Context) error {
		mongoClient, err = database.NewMongoDB(appConf.MongoDB, c)
		return err
	}, retry.WithMaxAttempts(5), retry.WithBackoff(retry.Exponential(time.Second, 10*time.Second)), retry.WithJitter(retry.FullJitter))
	if err != nil {
		return nil, nil, fmt.Errorf("init mongodb: %w", err)
	}

	redisCache := cache.NewRedisCache(redisClient)
	appCtx := ctx.NewContext(context.Background(), mongoClient, redisCache, logger.Sugar())

	// Wire build App
	application, cleanup, err := initApp(appCtx, appConf, logger)
	if err != nil {
		return nil, nil, err
	}

	return application, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(application *app.App, cleanup func()) {
	logger := application.Logger
	appConf := application.AppConf

	// metrics server (独立端口)
	if err := application.Metrics.Start(); err != nil {
		logger.Sugar().Errorf("metrics server failed to start: %v", err)
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// pprof server (独立端口，默认关闭)
	if err := application.Pprof.Start(); err != nil {
		logger.Sugar().Errorf("pprof server failed to start: %v", err)
	}

	// start HTTP server (async)
	safe.Go(func() {
		addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
		logger.Sugar().Infow("HTTP listener started", "address", addr)
		if err := application.HttpApp.Listen(addr); err != nil {
			logger.Sugar().Errorw("HTTP listener failed", "address", addr, "error", err)
		}
	})

	// wait for exit signal
	sig := <-quit
	logger.Sugar().Infof("Received signal: %v, shutting down gracefully...", sig)

	// 健康检查先于监听关闭转为不健康，给负载均衡摘流窗口
	application.Shutdown.Shutdown()

	shutdownTimeout := time.Duration(appConf.Http.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := application.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Sugar().Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	if err := application.Metrics.Stop(shutdownCtx); err != nil {
		logger.Sugar().Errorf("metrics server shutdown error: %v", err)
	}
	if err := application.Pprof.Stop(shutdownCtx); err != nil {
		logger.Sugar().Errorf("pprof server shutdown error: %v", err)
	}

	cleanup()

	logger.Info("Server shutdown complete")
}
