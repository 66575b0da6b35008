package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/observabil/foundry/internal/engine/model"
	httpx "github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/middleware"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/24 22:40
 * @file: router_audit.go
 * @description: 审计日志路由
 */

func (rt *Router) auditRouter(r fiber.Router, auth fiber.Handler) {
	auditGroup := r.Group("/audit", auth, middleware.RequireSubmodule(rt.Auth, model.PermAuditView))
	{
		auditGroup.Get("/:entityId", rt.queryAudit)
	}
}

// queryAudit 按实体查询租户内审计日志，entry_id 升序即创建顺序
func (rt *Router) queryAudit(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	entries, total, err := rt.Audit.QueryByEntity(c.Context(), octx, c.Params("entityId"),
		c.QueryInt("pageNum", 1), c.QueryInt("pageSize", 50))
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}

	return httpx.WithRepJSON(c, fiber.Map{
		"entries": entries,
		"total":   total,
	})
}
