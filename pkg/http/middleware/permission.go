package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/observabil/foundry/internal/engine/core"
	"github.com/observabil/foundry/internal/engine/service"
	"github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/auth/jwt"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/23 20:42
 * @file: permission.go
 * @description: 统一权限验证中间件。
 *               成员关系或权限不满足时请求不会到达业务处理器。
 */

// RequireSubmodule 要求调用者在令牌组织内持有指定权限点。
// 通过后把请求上下文写入 Locals("orgContext")。
func RequireSubmodule(authService *service.AuthService, submoduleId string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*jwt.AuthClaims)
		if !ok || claims == nil {
			return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
		}

		octx, err := authService.Authorize(c.Context(), claims, submoduleId)
		if err != nil {
			switch {
			case errors.Is(err, core.ErrMembershipNotFound):
				return http.WithRepErrMsg(c, http.MembershipNotFound.Code, http.MembershipNotFound.Msg, c.Path())
			case errors.Is(err, core.ErrPermissionDenied):
				return http.WithRepErrMsg(c, http.PermissionDenied.Code, http.PermissionDenied.Msg, c.Path())
			default:
				return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
			}
		}

		c.Locals("orgContext", octx)
		return c.Next()
	}
}

// OrgContextFrom 从 Locals 取出已授权的请求上下文
func OrgContextFrom(c *fiber.Ctx) (*service.OrgContext, bool) {
	octx, ok := c.Locals("orgContext").(*service.OrgContext)
	return octx, ok
}
