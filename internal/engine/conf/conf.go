package conf

import (
	"fmt"
	"sync"

	"github.com/observabil/foundry/pkg/cache"
	"github.com/observabil/foundry/pkg/conf"
	"github.com/observabil/foundry/pkg/database"
	httpx "github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/log"
	"github.com/observabil/foundry/pkg/metrics"
	"github.com/observabil/foundry/pkg/pprof"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/25 20:20
 * @file: conf.go
 * @description: 应用配置
 */

type AppConfig struct {
	Log     log.Conf
	Http    httpx.Http
	MongoDB database.MongoDB
	Redis   cache.Redis
	Metrics metrics.Config
	Pprof   pprof.Config
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		if _, err := conf.LoadConfigFile(confDir, &cfg); err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}
