package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/19 20:31
 * @file: model_submodule.go
 * @description: 权限点定义（最小可寻址能力单元）
 */

// Submodule 权限点。SubmoduleId 全局唯一，Name 在模块命名空间内唯一。
// 未注册的 id 在诊断上与"显式拒绝"可区分，但解析结果同样是拒绝。
type Submodule struct {
	BaseModel   `bson:",inline"`
	SubmoduleId string `bson:"submodule_id" json:"submoduleId"` // 如 customers.view
	Module      string `bson:"module" json:"module"`            // 模块命名空间，如 customers
	Name        string `bson:"name" json:"name"`                // 模块内唯一名称，如 view
	Description string `bson:"description" json:"description"`
	IsEnabled   int    `bson:"is_enabled" json:"isEnabled"`
}

func (Submodule) CollectionName() string {
	return "submodules"
}

// 已注册权限点（闭合枚举，启动时写入 submodules 集合）
const (
	PermCustomersView = "customers.view" // 查看客户

	PermLeadsView        = "leads.view"        // 查看线索
	PermLeadsEdit        = "leads.edit"        // 创建/编辑线索
	PermLeadsFeasibility = "leads.feasibility" // 可行性评估
	PermLeadsCosting     = "leads.costing"     // 成本核算
	PermLeadsApprove     = "leads.approve"     // 审批
	PermLeadsConfirm     = "leads.confirm"     // 确认
	PermLeadsCancel      = "leads.cancel"      // 拒绝/取消

	PermAuditView   = "audit.view"   // 查看审计日志
	PermMembersView = "members.view" // 查看成员
	PermRolesManage = "roles.manage" // 管理角色授权
)

// RegisteredSubmodules 返回全部已注册权限点
func RegisteredSubmodules() []Submodule {
	defs := []struct {
		id, desc string
	}{
		{PermCustomersView, "view customers"},
		{PermLeadsView, "view leads"},
		{PermLeadsEdit, "create and edit leads"},
		{PermLeadsFeasibility, "run feasibility check"},
		{PermLeadsCosting, "run costing"},
		{PermLeadsApprove, "approve leads"},
		{PermLeadsConfirm, "confirm leads"},
		{PermLeadsCancel, "reject or cancel leads"},
		{PermAuditView, "view audit log"},
		{PermMembersView, "view members"},
		{PermRolesManage, "manage role grants"},
	}

	subs := make([]Submodule, 0, len(defs))
	for _, d := range defs {
		module, name := splitSubmoduleId(d.id)
		subs = append(subs, Submodule{
			SubmoduleId: d.id,
			Module:      module,
			Name:        name,
			Description: d.desc,
			IsEnabled:   1,
		})
	}
	return subs
}

// IsRegisteredSubmodule reports whether id belongs to the closed enumeration.
func IsRegisteredSubmodule(id string) bool {
	for _, s := range RegisteredSubmodules() {
		if s.SubmoduleId == id {
			return true
		}
	}
	return false
}

func splitSubmoduleId(id string) (module, name string) {
	for i := 0; i < len(id); i++ {
		if id[i] == '.' {
			return id[:i], id[i+1:]
		}
	}
	return id, ""
}
