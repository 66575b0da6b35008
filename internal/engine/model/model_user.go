package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/18 22:03
 * @file: model_user.go
 * @description: 用户表模型（全局身份，跨组织）
 */

// User 用户表
type User struct {
	BaseModel `bson:",inline"`
	UserId    string `bson:"user_id" json:"userId"`       // 用户唯一标识
	Username  string `bson:"username" json:"username"`    // 用户名
	Password  string `bson:"password" json:"-"`           // 密码哈希，永不下发
	Email     string `bson:"email" json:"email"`          // 邮箱
	Phone     string `bson:"phone" json:"phone"`          // 电话
	IsEnabled int    `bson:"is_enabled" json:"isEnabled"` // 是否启用: 0-禁用, 1-启用
}

func (User) CollectionName() string {
	return "users"
}

// LoginReq 登录请求
type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OrgId    string `json:"orgId"` // 登录目标组织
}

// RefreshReq 刷新令牌请求
type RefreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
