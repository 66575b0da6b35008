package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/observabil/foundry/internal/engine/model"
	httpx "github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/auth/jwt"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/24 21:30
 * @file: router_auth.go
 * @description: 认证路由
 */

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		// not auth
		authGroup.Post("/login", rt.login)
		authGroup.Post("/refresh", rt.refresh)

		// auth
		authGroup.Post("/logout", auth, rt.logout)
	}
}

// login 校验凭据并签发组织作用域令牌
func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}
	if req.Username == "" || req.Password == "" {
		return httpx.WithRepErrMsg(c, httpx.UsernameArePasswordIsRequired.Code, httpx.UsernameArePasswordIsRequired.Msg, c.Path())
	}
	if req.OrgId == "" {
		return httpx.WithRepErrMsg(c, httpx.OrgIdIsEmpty.Code, httpx.OrgIdIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Auth.Login(c.Context(), &req, rt.Http.Auth)
	if err != nil {
		switch err.Error() {
		case httpx.UserNotExist.Msg:
			return httpx.WithRepErrMsg(c, httpx.UserNotExist.Code, httpx.UserNotExist.Msg, c.Path())
		case httpx.UserIncorrectPassword.Msg:
			return httpx.WithRepErrMsg(c, httpx.UserIncorrectPassword.Code, httpx.UserIncorrectPassword.Msg, c.Path())
		}
		return replyLeadErr(c, err)
	}

	return httpx.WithRepJSON(c, resp)
}

// refresh 用刷新令牌换取新令牌对
func (rt *Router) refresh(c *fiber.Ctx) error {
	var req model.RefreshReq
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, httpx.BadRequest.Msg, c.Path())
	}

	token, err := rt.Auth.Refresh(c.Context(), req.RefreshToken, &rt.Http.Auth)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InValidRefreshToken.Code, httpx.InValidRefreshToken.Msg, c.Path())
	}

	return httpx.WithRepJSON(c, token)
}

// logout 删除会话，令牌立即失效
func (rt *Router) logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*jwt.AuthClaims)
	if !ok || claims == nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	if err := rt.Auth.Logout(c.Context(), &rt.Http.Auth, claims.UserId); err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}

	return httpx.WithRepNotDetail(c)
}
