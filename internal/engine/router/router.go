package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/observabil/foundry/internal/engine/core"
	"github.com/observabil/foundry/internal/engine/service"
	"github.com/observabil/foundry/pkg/ctx"
	httpx "github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/middleware"
	"github.com/observabil/foundry/pkg/shutdown"
	"github.com/observabil/foundry/pkg/version"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/24 21:08
 * @file: router.go
 * @description: setup router
 *  		     internal api router, use by web
 */

type Router struct {
	Http     *httpx.Http
	Ctx      *ctx.Context
	Auth     *service.AuthService
	Lead     *service.LeadService
	Workflow *service.WorkflowService
	Perm     *service.PermissionService
	Role     *service.RoleService
	Member   *service.MemberService
	Audit    *service.AuditService
	Shutdown *shutdown.Manager
}

func NewRouter(
	httpConf *httpx.Http,
	appCtx *ctx.Context,
	authService *service.AuthService,
	leadService *service.LeadService,
	workflowService *service.WorkflowService,
	permService *service.PermissionService,
	roleService *service.RoleService,
	memberService *service.MemberService,
	auditService *service.AuditService,
) *Router {
	return &Router{
		Http:     httpConf,
		Ctx:      appCtx,
		Auth:     authService,
		Lead:     leadService,
		Workflow: workflowService,
		Perm:     permService,
		Role:     roleService,
		Member:   memberService,
		Audit:    auditService,
		Shutdown: shutdown.NewManager(),
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Foundry",
		ReadTimeout:  time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(rt.Http.IdleTimeout) * time.Second,
	})

	// 中间件
	app.Use(
		middleware.ExceptionMiddleware,
		cors.New(),
		middleware.AccessLogMiddleware(rt.Http),
	)

	// 健康检查；退出中报 503，让负载均衡尽早摘流
	app.Get("/health", func(c *fiber.Ctx) error {
		if rt.Shutdown.IsShuttingDown() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}
		return c.SendString("ok")
	})

	// 版本信息
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	// engine router, internal api router
	engine := app.Group(rt.Http.InternalContextPath)

	auth := middleware.AuthorizationMiddleware(&rt.Http.Auth, rt.Ctx.Cache)

	rt.authRouter(engine, auth)
	rt.leadRouter(engine, auth)
	rt.roleRouter(engine, auth)
	rt.memberRouter(engine, auth)
	rt.auditRouter(engine, auth)

	// 找不到路径时的处理 - 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return httpx.WithRepErrMsg(c, httpx.NotFound.Code, "request path not found", c.Path())
	})

	return app
}

// replyLeadErr 把线索相关的业务错误映射为响应码。
// ErrOrgMismatch 与 ErrNotFound 刻意共用同一个响应，
// 不向调用方暴露其他租户实体的存在。
func replyLeadErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrOrgMismatch):
		return httpx.WithRepErrMsg(c, httpx.LeadNotFound.Code, httpx.LeadNotFound.Msg, c.Path())
	case errors.Is(err, core.ErrConcurrentModification):
		return httpx.WithRepErrMsg(c, httpx.ConcurrentModification.Code, httpx.ConcurrentModification.Msg, c.Path())
	case errors.Is(err, core.ErrInvalidTransition):
		return httpx.WithRepErrMsg(c, httpx.InvalidTransition.Code, httpx.InvalidTransition.Msg, c.Path())
	case errors.Is(err, core.ErrApprovalPending):
		return httpx.WithRepErrMsg(c, httpx.ApprovalPending.Code, httpx.ApprovalPending.Msg, c.Path())
	case errors.Is(err, core.ErrPermissionDenied):
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, httpx.PermissionDenied.Msg, c.Path())
	case errors.Is(err, core.ErrMembershipNotFound):
		return httpx.WithRepErrMsg(c, httpx.MembershipNotFound.Code, httpx.MembershipNotFound.Msg, c.Path())
	default:
		return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
	}
}
