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

package model

// Role 角色表（支持自定义角色）。
// IsSuperAdmin 为真时绕过逐项授权判定，优先于任何显式 granted=false 行。
type Role struct {
	BaseModel    `bson:",inline"`
	RoleId       string `bson:"role_id" json:"roleId"`
	Name         string `bson:"name" json:"name"`                   // 角色名称
	DisplayName  string `bson:"display_name" json:"displayName"`    // 显示名称
	Description  string `bson:"description" json:"description"`     // 角色描述
	IsSuperAdmin bool   `bson:"is_super_admin" json:"isSuperAdmin"` // 超级管理员旁路
	IsEnabled    int    `bson:"is_enabled" json:"isEnabled"`        // 0: disabled, 1: enabled
}

func (Role) CollectionName() string {
	return "roles"
}

// 内置组织角色 ID
const (
	Owner  = "owner"  // 组织所有者
	Admin  = "admin"  // 组织管理员
	Member = "member" // 组织成员
)

// RoleEnabled role is enabled
const RoleEnabled = 1

// CreateRoleReq request for creating role
type CreateRoleReq struct {
	RoleId       string `json:"roleId"`
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}
