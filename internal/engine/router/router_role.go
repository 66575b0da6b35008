package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/observabil/foundry/internal/engine/model"
	httpx "github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/middleware"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/24 22:15
 * @file: router_role.go
 * @description: 角色与授权路由
 */

func (rt *Router) roleRouter(r fiber.Router, auth fiber.Handler) {
	manage := middleware.RequireSubmodule(rt.Auth, model.PermRolesManage)

	roleGroup := r.Group("/roles", auth, manage)
	{
		roleGroup.Get("/", rt.listRoles)
		roleGroup.Post("/", rt.createRole)
		roleGroup.Get("/:roleId/permissions", rt.getRolePermissions)
		roleGroup.Put("/:roleId/permissions", rt.updateRolePermissions)
		roleGroup.Delete("/:roleId/permissions/:submoduleId", rt.removeRolePermission)
	}

	r.Get("/submodules", auth, manage, rt.listSubmodules)
}

// listRoles 分页获取角色
func (rt *Router) listRoles(c *fiber.Ctx) error {
	roles, err := rt.Role.ListRoles(c.Context(), c.QueryInt("pageNum", 1), c.QueryInt("pageSize", 20))
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, roles)
}

// createRole 创建自定义角色
func (rt *Router) createRole(c *fiber.Ctx) error {
	var req model.CreateRoleReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}
	if req.RoleId == "" || req.Name == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "roleId and name are required", c.Path())
	}

	role, err := rt.Role.CreateRole(c.Context(), &req)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, role)
}

// getRolePermissions 获取角色授权行
func (rt *Router) getRolePermissions(c *fiber.Ctx) error {
	roleId := c.Params("roleId")
	grants, err := rt.Perm.ListGrants(c.Context(), roleId)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, fiber.Map{
		"roleId": roleId,
		"grants": grants,
	})
}

// updateRolePermissions 批量更新角色授权并使缓存失效
func (rt *Router) updateRolePermissions(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.UpdateRolePermissionsReq
	if err := c.BodyParser(&req); err != nil || len(req.Grants) == 0 {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}

	if err := rt.Perm.UpdateGrants(c.Context(), c.Params("roleId"), req.Grants, octx.UserId); err != nil {
		return replyLeadErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

// removeRolePermission 删除授权行，等价于回到默认拒绝
func (rt *Router) removeRolePermission(c *fiber.Ctx) error {
	if err := rt.Perm.RemoveGrant(c.Context(), c.Params("roleId"), c.Params("submoduleId")); err != nil {
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
	return httpx.WithRepNotDetail(c)
}

// listSubmodules 获取全部已注册权限点
func (rt *Router) listSubmodules(c *fiber.Ctx) error {
	subs, err := rt.Perm.ListSubmodules(c.Context())
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, subs)
}
