package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/19 20:44
 * @file: model_role_permission.go
 * @description: 角色-权限点授权行
 */

// RolePermission (role_id, submodule_id) 唯一。
// 没有对应行等价于 granted=false：默认关闭，新增权限点不会隐式放行。
type RolePermission struct {
	BaseModel   `bson:",inline"`
	RoleId      string `bson:"role_id" json:"roleId"`
	SubmoduleId string `bson:"submodule_id" json:"submoduleId"`
	Granted     bool   `bson:"granted" json:"granted"`
	GrantedBy   string `bson:"granted_by" json:"grantedBy"` // 授权操作者用户ID
}

func (RolePermission) CollectionName() string {
	return "role_permissions"
}

// UpdateRolePermissionsReq 整体更新角色授权的请求
type UpdateRolePermissionsReq struct {
	Grants map[string]bool `json:"grants"` // submoduleId -> granted
}
