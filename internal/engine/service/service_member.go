package service

import (
	"context"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 16:55
 * @file: service_member.go
 * @description: 组织成员服务
 */

type MemberService struct {
	ctx            *ctx.Context
	membershipRepo repo.IMembershipRepository
}

func NewMemberService(appCtx *ctx.Context, membershipRepo repo.IMembershipRepository) *MemberService {
	return &MemberService{ctx: appCtx, membershipRepo: membershipRepo}
}

// ListMembers 分页获取组织成员，组织来自请求上下文而非参数
func (ms *MemberService) ListMembers(c context.Context, octx *OrgContext, pageNum, pageSize int) ([]model.OrganizationMember, error) {
	return ms.membershipRepo.ListMembers(c, octx.OrgId, pageNum, pageSize)
}
