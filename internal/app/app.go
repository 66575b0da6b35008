package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/observabil/foundry/internal/engine/conf"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/internal/engine/router"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/metrics"
	"github.com/observabil/foundry/pkg/pprof"
	"github.com/observabil/foundry/pkg/shutdown"
	"go.uber.org/zap"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/25 21:12
 * @file: app.go
 * @description: application assembly
 */

type App struct {
	HttpApp  *fiber.App
	Metrics  *metrics.Server
	Pprof    *pprof.Server
	Shutdown *shutdown.Manager
	Logger   *zap.Logger
	AppConf  conf.AppConfig
}

func NewApp(
	rt *router.Router,
	appCtx *ctx.Context,
	appConf conf.AppConfig,
	logger *zap.Logger,
) (*App, func(), error) {
	// 集合索引与权限点枚举在启动期就位
	if err := repo.EnsureIndexes(appCtx); err != nil {
		return nil, nil, err
	}
	if err := repo.NewSubmoduleRepo(appCtx).Seed(appCtx.GetCtx()); err != nil {
		return nil, nil, err
	}

	httpApp := rt.Router()
	metricsServer := metrics.NewServer(appConf.Metrics)
	pprofServer := pprof.NewServer(appConf.Pprof)

	cleanup := func() {
		if appCtx.MongoIns != nil {
			if err := appCtx.MongoIns.Close(appCtx.GetCtx()); err != nil {
				logger.Error("failed to close mongodb client", zap.Error(err))
			}
		}
	}

	app := &App{
		HttpApp:  httpApp,
		Metrics:  metricsServer,
		Pprof:    pprofServer,
		Shutdown: rt.Shutdown,
		Logger:   logger,
		AppConf:  appConf,
	}
	return app, cleanup, nil
}
