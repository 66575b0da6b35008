package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/observabil/foundry/pkg/cache"
	"github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/auth/jwt"
	"github.com/observabil/foundry/pkg/log"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/23 20:10
 * @file: authorization.go
 * @description: 认证中间件。令牌验证通过且会话仍存在才放行，
 *               登出会删除会话，令牌随之立即失效。
 */

// AuthorizationMiddleware 认证中间件
// This function is used as the middleware of fiber.
func AuthorizationMiddleware(auth *http.Auth, redisCache cache.ICache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErrMsg(c, http.TokenFormatIncorrect.Code, http.TokenFormatIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], auth.SecretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		// 会话已被登出删除时拒绝
		sessionKey := auth.RedisKeyPrefix + claims.UserId
		exists, err := redisCache.Exists(c.Context(), sessionKey).Result()
		if err != nil {
			log.Errorf("redis check session exists failed: %v", err)
			return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
		}
		if exists == 0 {
			return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
