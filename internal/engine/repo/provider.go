package repo

import (
	"github.com/google/wire"
)

// ProviderSet 提供仓库层相关的依赖
var ProviderSet = wire.NewSet(
	NewUserRepo,
	NewOrganizationRepo,
	NewMembershipRepo,
	NewRoleRepo,
	NewSubmoduleRepo,
	NewRolePermissionRepo,
	NewLeadRepo,
	NewAuditRepo,
)
