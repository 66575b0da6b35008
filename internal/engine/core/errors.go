package core

import "errors"

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/18 21:02
 * @file: errors.go
 * @description: recoverable error taxonomy, mapped to boundary codes in router
 */

var (
	// ErrTokenExpired 令牌已过期
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid 签名校验失败或载荷损坏
	ErrTokenInvalid = errors.New("token invalid")
	// ErrMembershipNotFound 调用者在目标组织没有有效成员关系
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrPermissionDenied 角色未被授予所需能力
	ErrPermissionDenied = errors.New("permission denied")
	// ErrOrgMismatch 实体归属与请求租户不一致。
	// 对外必须与 ErrNotFound 不可区分，避免泄露其他租户实体的存在。
	ErrOrgMismatch = errors.New("organization mismatch")
	// ErrNotFound 实体不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition 目标阶段不在当前阶段的转移表中
	ErrInvalidTransition = errors.New("invalid workflow transition")
	// ErrApprovalPending 所需审批记录未全部通过
	ErrApprovalPending = errors.New("required approvals pending")
	// ErrConcurrentModification 版本比较失败，调用方应重读后重试
	ErrConcurrentModification = errors.New("concurrent modification")
)
