package conf

import (
	"github.com/google/wire"
	httpx "github.com/observabil/foundry/pkg/http"
)

// ProviderSet 提供配置相关的依赖
var ProviderSet = wire.NewSet(ProvideHttp)

// ProvideHttp 提供 HTTP 配置实例
func ProvideHttp(appConf AppConfig) *httpx.Http {
	return &appConf.Http
}
