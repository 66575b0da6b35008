package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/observabil/foundry/internal/engine/model"
	httpx "github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/middleware"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/24 21:52
 * @file: router_lead.go
 * @description: 线索路由。转移与审批端点只做路由级认证，
 *               按目标阶段区分的权限判定在工作流引擎内完成。
 */

func (rt *Router) leadRouter(r fiber.Router, auth fiber.Handler) {
	leadGroup := r.Group("/leads", auth)
	{
		leadGroup.Post("/", middleware.RequireSubmodule(rt.Auth, model.PermLeadsEdit), rt.createLead)
		leadGroup.Get("/", middleware.RequireSubmodule(rt.Auth, model.PermLeadsView), rt.listLeads)
		leadGroup.Get("/:leadId", middleware.RequireSubmodule(rt.Auth, model.PermLeadsView), rt.getLead)

		// 转移所需权限点由目标阶段决定，见 WorkflowService.Transition
		leadGroup.Post("/:leadId/transition", middleware.RequireSubmodule(rt.Auth, model.PermLeadsView), rt.transitionLead)
		leadGroup.Post("/:leadId/approvals", middleware.RequireSubmodule(rt.Auth, model.PermLeadsView), rt.recordApproval)
	}
}

// createLead 创建线索
func (rt *Router) createLead(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.CreateLeadReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}
	if strings.TrimSpace(req.Title) == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "title is required", c.Path())
	}

	lead, err := rt.Lead.CreateLead(c.Context(), octx, &req)
	if err != nil {
		return replyLeadErr(c, err)
	}

	return httpx.WithRepJSON(c, lead)
}

// listLeads 分页获取组织内线索
func (rt *Router) listLeads(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	leads, err := rt.Lead.ListLeads(c.Context(), octx, c.QueryInt("pageNum", 1), c.QueryInt("pageSize", 20))
	if err != nil {
		return replyLeadErr(c, err)
	}

	return httpx.WithRepJSON(c, leads)
}

// getLead 获取线索详情
func (rt *Router) getLead(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	lead, err := rt.Lead.GetLead(c.Context(), octx, c.Params("leadId"))
	if err != nil {
		return replyLeadErr(c, err)
	}

	return httpx.WithRepJSON(c, lead)
}

// transitionLead 执行一次工作流转移
func (rt *Router) transitionLead(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.TransitionReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}
	if req.RequestedStage == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "requestedStage is required", c.Path())
	}

	lead, err := rt.Workflow.Transition(c.Context(), octx, c.Params("leadId"), &req)
	if err != nil {
		return replyLeadErr(c, err)
	}

	return httpx.WithRepJSON(c, lead)
}

// recordApproval 记录审批决定
func (rt *Router) recordApproval(c *fiber.Ctx) error {
	octx, ok := middleware.OrgContextFrom(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req model.ApprovalReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}

	lead, err := rt.Workflow.RecordApproval(c.Context(), octx, c.Params("leadId"), &req)
	if err != nil {
		return replyLeadErr(c, err)
	}

	return httpx.WithRepJSON(c, lead)
}
