package http

import (
	"time"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/16 15:38
 * @file: http.go
 * @description: http server config
 */

type Http struct {
	Host                string
	Port                int
	Mode                string
	InternalContextPath string `mapstructure:"internalContextPath"`
	ExposeMetrics       bool
	AccessLog           bool
	ReadTimeout         int
	WriteTimeout        int
	IdleTimeout         int
	ShutdownTimeout     int
	TLS                 TLS
	Auth                Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// Auth 签名密钥与令牌有效期，进程级配置，启动时加载一次。
// 轮换密钥会使所有已签发令牌失效（可接受的权衡）。
type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration
	RefreshExpire  time.Duration
	RedisKeyPrefix string
}
