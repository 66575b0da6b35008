package service

import (
	"context"
	"errors"
	"time"

	"github.com/observabil/foundry/internal/engine/core"
	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/id"
	"github.com/observabil/foundry/pkg/log"
	"github.com/observabil/foundry/pkg/statemachine"
	"go.mongodb.org/mongo-driver/mongo"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 14:10
 * @file: service_lead.go
 * @description: 线索服务。读取一律带租户过滤；
 *               跨租户访问对外与不存在不可区分。
 */

type LeadService struct {
	ctx          *ctx.Context
	leadRepo     repo.ILeadRepository
	auditService *AuditService
}

func NewLeadService(appCtx *ctx.Context, leadRepo repo.ILeadRepository, auditService *AuditService) *LeadService {
	return &LeadService{
		ctx:          appCtx,
		leadRepo:     leadRepo,
		auditService: auditService,
	}
}

// CreateLead 创建线索：Draft 阶段、version=0、可行性未评估
func (ls *LeadService) CreateLead(c context.Context, octx *OrgContext, req *model.CreateLeadReq) (*model.Lead, error) {
	now := time.Now()
	lead := &model.Lead{
		LeadId:            id.GetUUIDWithoutDashes(),
		OrgId:             octx.OrgId,
		Title:             req.Title,
		CustomerName:      req.CustomerName,
		WorkflowStage:     statemachine.LeadDraft,
		Status:            statemachine.LeadDraft.Status(),
		FeasibilityStatus: model.FeasibilityUnchecked,
		ApprovalRecords:   []model.ApprovalRecord{},
		Version:           0,
		CreatedBy:         octx.UserId,
	}
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if err := ls.leadRepo.CreateLead(c, lead); err != nil {
		log.Errorf("create lead failed: org=%s err=%v", octx.OrgId, err)
		return nil, err
	}

	ls.auditService.Record(c, &model.AuditLogEntry{
		OrgId:       octx.OrgId,
		ActorUserId: octx.UserId,
		Action:      model.AuditActionLeadCreated,
		EntityType:  "lead",
		EntityId:    lead.LeadId,
		AfterState:  string(lead.WorkflowStage),
	})

	return lead, nil
}

// GetLead 获取线索。实体属于其他组织时返回 ErrOrgMismatch，
// 路由层把它和 ErrNotFound 映射为同一个响应。
func (ls *LeadService) GetLead(c context.Context, octx *OrgContext, leadId string) (*model.Lead, error) {
	lead, err := ls.leadRepo.GetLeadScoped(c, leadId, octx.OrgId)
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	return nil, ls.classifyMiss(c, octx, leadId)
}

// ListLeads 分页获取组织内线索
func (ls *LeadService) ListLeads(c context.Context, octx *OrgContext, pageNum, pageSize int) ([]model.Lead, error) {
	return ls.leadRepo.ListLeads(c, octx.OrgId, pageNum, pageSize)
}

// classifyMiss 区分不存在与跨租户：后者只在内部日志留痕
func (ls *LeadService) classifyMiss(c context.Context, octx *OrgContext, leadId string) error {
	lead, err := ls.leadRepo.GetLead(c, leadId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return core.ErrNotFound
		}
		return err
	}
	log.Warnf("cross-org access: user=%s org=%s lead=%s owner=%s", octx.UserId, octx.OrgId, leadId, lead.OrgId)
	return core.ErrOrgMismatch
}
