package http

import (
	"github.com/gofiber/fiber/v2"
)

type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

// WithRepErr 返回操作结果，返回结构体有path字段
func WithRepErr(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.Status(httpStatusOf(code)).JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithRepErrMsg 只返回json数据
func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.Status(httpStatusOf(code)).JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// httpStatusOf maps a business code to the HTTP status carried on the wire.
// 44xx auth -> 401, 403x -> 403, 404x -> 404, 409x -> 409, 422x -> 422.
func httpStatusOf(code int) int {
	switch {
	case code >= 4401 && code <= 4410:
		return fiber.StatusUnauthorized
	case code >= 4030 && code <= 4039:
		return fiber.StatusForbidden
	case code == NotFound.Code || code == UserNotExist.Code || code == LeadNotFound.Code:
		return fiber.StatusNotFound
	case code >= 4090 && code <= 4099:
		return fiber.StatusConflict
	case code >= 4220 && code <= 4229:
		return fiber.StatusUnprocessableEntity
	case code == BadRequest.Code || code == RequestParameterParsingFailed.Code:
		return fiber.StatusBadRequest
	case code >= 5000:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusOK
	}
}
