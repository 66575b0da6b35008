package service

import (
	"context"
	"errors"
	"time"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/log"
	"go.mongodb.org/mongo-driver/mongo"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 16:40
 * @file: service_role.go
 * @description: 角色服务
 */

type RoleService struct {
	ctx      *ctx.Context
	roleRepo repo.IRoleRepository
}

func NewRoleService(appCtx *ctx.Context, roleRepo repo.IRoleRepository) *RoleService {
	return &RoleService{ctx: appCtx, roleRepo: roleRepo}
}

// CreateRole 创建自定义角色
func (rs *RoleService) CreateRole(c context.Context, req *model.CreateRoleReq) (*model.Role, error) {
	if _, err := rs.roleRepo.GetRole(c, req.RoleId); err == nil {
		return nil, errors.New("role already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	role := &model.Role{
		RoleId:       req.RoleId,
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		IsSuperAdmin: req.IsSuperAdmin,
		IsEnabled:    model.RoleEnabled,
	}
	role.CreatedAt = now
	role.UpdatedAt = now

	if err := rs.roleRepo.CreateRole(c, role); err != nil {
		log.Errorf("create role %s failed: %v", req.RoleId, err)
		return nil, err
	}
	return role, nil
}

// ListRoles 分页获取角色
func (rs *RoleService) ListRoles(c context.Context, pageNum, pageSize int) ([]model.Role, error) {
	return rs.roleRepo.ListRoles(c, pageNum, pageSize)
}
