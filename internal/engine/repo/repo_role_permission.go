package repo

import (
	"context"
	"time"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/20 20:33
 * @file: repo_role_permission.go
 * @description: 角色授权仓库（基于关联表设计）
 */

type IRolePermissionRepository interface {
	// GetGrant 获取授权行；不存在返回 mongo.ErrNoDocuments
	GetGrant(c context.Context, roleId, submoduleId string) (*model.RolePermission, error)
	UpsertGrant(c context.Context, grant *model.RolePermission) error
	RemoveGrant(c context.Context, roleId, submoduleId string) error
	ListByRole(c context.Context, roleId string) ([]model.RolePermission, error)
}

type RolePermissionRepo struct {
	Ctx *ctx.Context
}

func NewRolePermissionRepo(appCtx *ctx.Context) IRolePermissionRepository {
	return &RolePermissionRepo{Ctx: appCtx}
}

// GetGrant 获取 (role_id, submodule_id) 授权行
func (r *RolePermissionRepo) GetGrant(c context.Context, roleId, submoduleId string) (*model.RolePermission, error) {
	var grant model.RolePermission
	err := r.Ctx.MongoIns.GetCollection(CollRolePermissions).
		FindOne(c, bson.M{"role_id": roleId, "submodule_id": submoduleId}).Decode(&grant)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// UpsertGrant 写入授权行，(role_id, submodule_id) 唯一
func (r *RolePermissionRepo) UpsertGrant(c context.Context, grant *model.RolePermission) error {
	filter := bson.M{"role_id": grant.RoleId, "submodule_id": grant.SubmoduleId}
	update := bson.M{
		"$set": bson.M{
			"granted":    grant.Granted,
			"granted_by": grant.GrantedBy,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"role_id":      grant.RoleId,
			"submodule_id": grant.SubmoduleId,
			"created_at":   time.Now(),
		},
	}
	_, err := r.Ctx.MongoIns.GetCollection(CollRolePermissions).
		UpdateOne(c, filter, update, options.Update().SetUpsert(true))
	return err
}

// RemoveGrant 删除授权行，等价于回到默认拒绝
func (r *RolePermissionRepo) RemoveGrant(c context.Context, roleId, submoduleId string) error {
	_, err := r.Ctx.MongoIns.GetCollection(CollRolePermissions).
		DeleteOne(c, bson.M{"role_id": roleId, "submodule_id": submoduleId})
	return err
}

// ListByRole 获取角色的全部授权行
func (r *RolePermissionRepo) ListByRole(c context.Context, roleId string) ([]model.RolePermission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submodule_id", Value: 1}})
	cursor, err := r.Ctx.MongoIns.GetCollection(CollRolePermissions).
		Find(c, bson.M{"role_id": roleId}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c)

	var grants []model.RolePermission
	if err := cursor.All(c, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}
