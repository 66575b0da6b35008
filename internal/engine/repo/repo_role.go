// Copyright 2025 Foundry Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repo

import (
	"context"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IRoleRepository interface {
	GetRole(c context.Context, roleId string) (*model.Role, error)
	CreateRole(c context.Context, role *model.Role) error
	ListRoles(c context.Context, pageNum, pageSize int) ([]model.Role, error)
}

type RoleRepo struct {
	Ctx *ctx.Context
}

func NewRoleRepo(appCtx *ctx.Context) IRoleRepository {
	return &RoleRepo{Ctx: appCtx}
}

// GetRole 获取启用状态的角色
func (r *RoleRepo) GetRole(c context.Context, roleId string) (*model.Role, error) {
	var role model.Role
	err := r.Ctx.MongoIns.GetCollection(CollRoles).
		FindOne(c, bson.M{"role_id": roleId, "is_enabled": model.RoleEnabled}).Decode(&role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole 创建角色
func (r *RoleRepo) CreateRole(c context.Context, role *model.Role) error {
	_, err := r.Ctx.MongoIns.GetCollection(CollRoles).InsertOne(c, role)
	return err
}

// ListRoles 分页获取角色
func (r *RoleRepo) ListRoles(c context.Context, pageNum, pageSize int) ([]model.Role, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "role_id", Value: 1}}).
		SetSkip(int64((pageNum - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.Ctx.MongoIns.GetCollection(CollRoles).
		Find(c, bson.M{"is_enabled": model.RoleEnabled}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c)

	var roles []model.Role
	if err := cursor.All(c, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
