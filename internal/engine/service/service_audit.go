package service

import (
	"context"
	"time"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/log"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 11:02
 * @file: service_audit.go
 * @description: 审计服务。条目仅追加，按 ULID 排序即创建顺序。
 */

type AuditService struct {
	ctx       *ctx.Context
	auditRepo repo.IAuditRepository
}

func NewAuditService(appCtx *ctx.Context, auditRepo repo.IAuditRepository) *AuditService {
	return &AuditService{ctx: appCtx, auditRepo: auditRepo}
}

// Record 写入一条审计日志。审计失败只记日志，不阻断业务写。
func (s *AuditService) Record(c context.Context, entry *model.AuditLogEntry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	if err := s.auditRepo.Append(c, entry); err != nil {
		log.Errorf("audit append failed: action=%s entity=%s err=%v", entry.Action, entry.EntityId, err)
	}
}

// AccessDenied 记录一次授权拒绝
func (s *AuditService) AccessDenied(c context.Context, orgId, userId, submoduleId string) {
	s.Record(c, &model.AuditLogEntry{
		OrgId:       orgId,
		ActorUserId: userId,
		Action:      model.AuditActionAccessDenied,
		EntityType:  "submodule",
		EntityId:    submoduleId,
	})
}

// QueryByEntity 按实体查询租户内的审计日志
func (s *AuditService) QueryByEntity(c context.Context, octx *OrgContext, entityId string, pageNum, pageSize int) ([]model.AuditLogEntry, int64, error) {
	entries, err := s.auditRepo.QueryByEntity(c, octx.OrgId, entityId, pageNum, pageSize)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.auditRepo.CountByEntity(c, octx.OrgId, entityId)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}
