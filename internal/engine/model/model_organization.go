package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/18 22:11
 * @file: model_organization.go
 * @description: 组织表模型（租户边界）
 */

// Organization 组织表。OrgId 创建后不可变，是所有数据的租户边界。
type Organization struct {
	BaseModel   `bson:",inline"`
	OrgId       string `bson:"org_id" json:"orgId"`             // 组织唯一标识
	Name        string `bson:"name" json:"name"`                // 组织名称
	DisplayName string `bson:"display_name" json:"displayName"` // 组织显示名称
	Description string `bson:"description" json:"description"`  // 组织描述
	Email       string `bson:"email" json:"email"`              // 组织联系邮箱
	Status      int    `bson:"status" json:"status"`            // 状态: 0-未激活, 1-正常, 2-冻结
	OwnerUserId string `bson:"owner_user_id" json:"ownerUserId"` // 组织所有者用户ID
	IsEnabled   int    `bson:"is_enabled" json:"isEnabled"`     // 是否启用: 0-禁用, 1-启用
}

func (Organization) CollectionName() string {
	return "organizations"
}

// OrganizationStatus 组织状态
const (
	OrgStatusInactive = 0 // 未激活
	OrgStatusActive   = 1 // 正常
	OrgStatusFrozen   = 2 // 冻结
)
