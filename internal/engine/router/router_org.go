package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/observabil/foundry/internal/engine/model"
	httpx "github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/middleware"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/24 22:31
 * @file: router_org.go
 * @description: 组织成员路由。组织一律来自令牌，不接受参数指定。
 */

func (rt *Router) memberRouter(r fiber.Router, auth fiber.Handler) {
	orgGroup := r.Group("/org", auth)
	{
		orgGroup.Get("/members", middleware.RequireSubmodule(rt.Auth, model.PermMembersView), rt.listMembers)
	}
}

// listMembers 分页获取当前组织成员
func (rt *Router) listMembers(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	members, err := rt.Member.ListMembers(c.Context(), octx, c.QueryInt("pageNum", 1), c.QueryInt("pageSize", 20))
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, members)
}
