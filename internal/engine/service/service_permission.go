package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/observabil/foundry/internal/engine/core"
	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 10:05
 * @file: service_permission.go
 * @description: 权限解析服务。默认拒绝：没有显式 granted=true 行就是拒绝，
 *               任何查询失败也按拒绝处理。超级管理员旁路优先于一切授权行。
 */

const (
	// permCacheKey perm:<roleId>:<submoduleId>
	permCacheKey = "perm:%s:%s"

	// PermCacheTTL 授权撤销最迟在此窗口后生效
	PermCacheTTL = 30 * time.Second
)

type PermissionService struct {
	ctx      *ctx.Context
	roleRepo repo.IRoleRepository
	permRepo repo.IRolePermissionRepository
	subRepo  repo.ISubmoduleRepository
}

func NewPermissionService(
	appCtx *ctx.Context,
	roleRepo repo.IRoleRepository,
	permRepo repo.IRolePermissionRepository,
	subRepo repo.ISubmoduleRepository,
) *PermissionService {
	return &PermissionService{
		ctx:      appCtx,
		roleRepo: roleRepo,
		permRepo: permRepo,
		subRepo:  subRepo,
	}
}

// Resolve 判定角色对权限点是否放行。
// 超级管理员短路在缓存和授权行之前，显式 granted=false 对其无效。
// 未注册的权限点记录诊断日志后按拒绝处理。
func (ps *PermissionService) Resolve(c context.Context, roleId, submoduleId string) (bool, error) {
	role, err := ps.roleRepo.GetRole(c, roleId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warnf("resolve permission: role %s not found, deny", roleId)
			return false, nil
		}
		return false, err
	}

	if role.IsSuperAdmin {
		return true, nil
	}

	if !model.IsRegisteredSubmodule(submoduleId) {
		log.Warnf("resolve permission: unregistered submodule %s requested by role %s, deny", submoduleId, roleId)
		return false, nil
	}

	key := fmt.Sprintf(permCacheKey, roleId, submoduleId)
	cached, err := ps.ctx.Cache.Get(c, key).Result()
	if err == nil {
		return cached == "1", nil
	}
	// 缓存不可用时直接回源，不影响判定
	if !errors.Is(err, redis.Nil) {
		log.Warnf("resolve permission: cache get failed: %v", err)
	}

	granted := false
	grant, err := ps.permRepo.GetGrant(c, roleId, submoduleId)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return false, err
		}
		// 无授权行，默认拒绝
	} else {
		granted = grant.Granted
	}

	val := "0"
	if granted {
		val = "1"
	}
	if err := ps.ctx.Cache.Set(c, key, val, PermCacheTTL).Err(); err != nil {
		log.Warnf("resolve permission: cache set failed: %v", err)
	}

	return granted, nil
}

// UpdateGrants 批量更新角色授权行并使对应缓存失效。
// 任何未注册的权限点整体拒绝本次更新。
func (ps *PermissionService) UpdateGrants(c context.Context, roleId string, grants map[string]bool, grantedBy string) error {
	if _, err := ps.roleRepo.GetRole(c, roleId); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return core.ErrNotFound
		}
		return err
	}

	for submoduleId := range grants {
		if !model.IsRegisteredSubmodule(submoduleId) {
			log.Warnf("update grants: unregistered submodule %s, reject", submoduleId)
			return core.ErrNotFound
		}
	}

	for submoduleId, granted := range grants {
		err := ps.permRepo.UpsertGrant(c, &model.RolePermission{
			RoleId:      roleId,
			SubmoduleId: submoduleId,
			Granted:     granted,
			GrantedBy:   grantedBy,
		})
		if err != nil {
			return err
		}
		ps.invalidate(c, roleId, submoduleId)
	}

	return nil
}

// RemoveGrant 删除授权行，等价于回到默认拒绝
func (ps *PermissionService) RemoveGrant(c context.Context, roleId, submoduleId string) error {
	if err := ps.permRepo.RemoveGrant(c, roleId, submoduleId); err != nil {
		return err
	}
	ps.invalidate(c, roleId, submoduleId)
	return nil
}

// ListGrants 获取角色全部授权行
func (ps *PermissionService) ListGrants(c context.Context, roleId string) ([]model.RolePermission, error) {
	return ps.permRepo.ListByRole(c, roleId)
}

// ListSubmodules 获取全部已注册权限点
func (ps *PermissionService) ListSubmodules(c context.Context) ([]model.Submodule, error) {
	return ps.subRepo.ListSubmodules(c)
}

func (ps *PermissionService) invalidate(c context.Context, roleId, submoduleId string) {
	key := fmt.Sprintf(permCacheKey, roleId, submoduleId)
	if err := ps.ctx.Cache.Del(c, key).Err(); err != nil {
		log.Warnf("invalidate permission cache %s failed: %v", key, err)
	}
}
