//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/observabil/foundry/internal/app"
	"github.com/observabil/foundry/internal/engine/conf"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/internal/engine/router"
	"github.com/observabil/foundry/internal/engine/service"
	"github.com/observabil/foundry/pkg/ctx"
	"go.uber.org/zap"
)

func initApp(appCtx *ctx.Context, appConf conf.AppConfig, logger *zap.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		// 配置层
		conf.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		app.NewApp,
	))
}
