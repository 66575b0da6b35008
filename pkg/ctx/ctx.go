package ctx

import (
	"context"

	"github.com/observabil/foundry/pkg/cache"
	"github.com/observabil/foundry/pkg/database"
	"go.uber.org/zap"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/16 0:12
 * @file: ctx.go
 * @description: injected application context, no process-wide mutable client
 */

type Context struct {
	MongoIns *database.MongoClient
	Cache    cache.ICache
	Ctx      context.Context
	Log      *zap.SugaredLogger
}

func NewContext(ctx context.Context, mongodb *database.MongoClient, redisCache cache.ICache, log *zap.SugaredLogger) *Context {
	return &Context{
		MongoIns: mongodb,
		Cache:    redisCache,
		Ctx:      ctx,
		Log:      log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) GetMongoIns() *database.MongoClient {
	return c.MongoIns
}
