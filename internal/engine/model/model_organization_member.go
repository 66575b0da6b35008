package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/18 22:18
 * @file: model_organization_member.go
 * @description: 组织成员表
 */

// OrganizationMember 组织成员表。(user_id, org_id) 唯一，
// 访问组织数据必须存在状态为正常的成员关系，否则一律拒绝。
type OrganizationMember struct {
	BaseModel `bson:",inline"`
	OrgId     string `bson:"org_id" json:"orgId"`         // 组织ID
	UserId    string `bson:"user_id" json:"userId"`       // 用户ID
	RoleId    string `bson:"role_id" json:"roleId"`       // 角色ID（引用 roles 集合）
	Username  string `bson:"username" json:"username"`    // 用户名(冗余)
	Email     string `bson:"email" json:"email"`          // 邮箱(冗余)
	InvitedBy string `bson:"invited_by" json:"invitedBy"` // 邀请人用户ID
	Status    int    `bson:"status" json:"status"`        // 状态: 0-待接受, 1-正常, 2-禁用
}

func (OrganizationMember) CollectionName() string {
	return "org_memberships"
}

// OrganizationMemberStatus 组织成员状态
const (
	OrgMemberStatusPending  = 0 // 待接受
	OrgMemberStatusActive   = 1 // 正常
	OrgMemberStatusDisabled = 2 // 禁用
)
