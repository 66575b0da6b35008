package service

import (
	"context"
	"errors"
	"time"

	"github.com/observabil/foundry/internal/engine/core"
	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/log"
	"github.com/observabil/foundry/pkg/metrics"
	"github.com/observabil/foundry/pkg/statemachine"
	"go.mongodb.org/mongo-driver/mongo"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 15:30
 * @file: service_workflow.go
 * @description: 线索工作流引擎。转移校验顺序固定：
 *               存在性/租户 → 版本 → 转移表 → 审批前置 → 权限，
 *               最终落盘是一次 (lead_id, org_id, version) 条件写。
 *               每次成功转移恰好产生一条审计日志。
 */

// transitionPermissions 目标阶段 → 所需权限点
var transitionPermissions = map[statemachine.LeadStage]string{
	statemachine.LeadFeasibilityCheck:    model.PermLeadsFeasibility,
	statemachine.LeadCosting:             model.PermLeadsCosting,
	statemachine.LeadApprovalEngineering: model.PermLeadsApprove,
	statemachine.LeadApprovalCommercial:  model.PermLeadsApprove,
	statemachine.LeadConfirmed:           model.PermLeadsConfirm,
	statemachine.LeadRejected:            model.PermLeadsCancel,
	statemachine.LeadCancelled:           model.PermLeadsCancel,
}

type WorkflowService struct {
	ctx          *ctx.Context
	leadRepo     repo.ILeadRepository
	permService  *PermissionService
	auditService *AuditService
	sm           *statemachine.StateMachine[statemachine.LeadStage]
}

func NewWorkflowService(
	appCtx *ctx.Context,
	leadRepo repo.ILeadRepository,
	permService *PermissionService,
	auditService *AuditService,
) *WorkflowService {
	return &WorkflowService{
		ctx:          appCtx,
		leadRepo:     leadRepo,
		permService:  permService,
		auditService: auditService,
		sm:           statemachine.NewLeadStateMachine(),
	}
}

// Transition 执行一次工作流转移。
// expectedVersion 与当前版本不一致时返回 ErrConcurrentModification，
// 调用方应重读实体后决定是否重试。
func (ws *WorkflowService) Transition(c context.Context, octx *OrgContext, leadId string, req *model.TransitionReq) (*model.Lead, error) {
	target := statemachine.LeadStage(req.RequestedStage)
	if !target.IsValid() {
		return nil, core.ErrInvalidTransition
	}

	lead, err := ws.loadForOrg(c, octx, leadId)
	if err != nil {
		return nil, err
	}

	if lead.Version != req.ExpectedVersion {
		metrics.TransitionConflicts.Inc()
		return nil, core.ErrConcurrentModification
	}

	if err := ws.sm.Validate(lead.WorkflowStage, target); err != nil {
		return nil, core.ErrInvalidTransition
	}

	if err := ws.checkApprovals(lead, target); err != nil {
		return nil, err
	}

	submoduleId := transitionPermissions[target]
	allowed, err := ws.permService.Resolve(c, octx.RoleId, submoduleId)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.AuthDecisions.WithLabelValues("denied", submoduleId).Inc()
		ws.auditService.AccessDenied(c, octx.OrgId, octx.UserId, submoduleId)
		return nil, core.ErrPermissionDenied
	}

	update := ws.buildUpdate(lead, target)

	updated, err := ws.leadRepo.TransitionLead(c, leadId, octx.OrgId, req.ExpectedVersion, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// 条件写未命中：重读区分 不存在 / 跨租户 / 版本冲突
			return nil, ws.classifyCASMiss(c, octx, leadId)
		}
		return nil, err
	}

	ws.auditService.Record(c, &model.AuditLogEntry{
		OrgId:       octx.OrgId,
		ActorUserId: octx.UserId,
		Action:      model.AuditActionTransition,
		EntityType:  "lead",
		EntityId:    leadId,
		BeforeState: string(lead.WorkflowStage),
		AfterState:  string(target),
	})
	metrics.WorkflowTransitions.WithLabelValues(string(target)).Inc()

	log.Infof("lead %s transitioned %s -> %s by %s (version %d -> %d)",
		leadId, lead.WorkflowStage, target, octx.UserId, req.ExpectedVersion, updated.Version)

	return updated, nil
}

// RecordApproval 记录审批决定并递增版本。
// 只能对处于对应审批阶段的线索记录该类型的审批。
func (ws *WorkflowService) RecordApproval(c context.Context, octx *OrgContext, leadId string, req *model.ApprovalReq) (*model.Lead, error) {
	if req.Type != model.ApprovalTypeEngineering && req.Type != model.ApprovalTypeCommercial {
		return nil, core.ErrInvalidTransition
	}
	if req.Decision != model.ApprovalStatusApproved && req.Decision != model.ApprovalStatusRejected {
		return nil, core.ErrInvalidTransition
	}

	lead, err := ws.loadForOrg(c, octx, leadId)
	if err != nil {
		return nil, err
	}

	expectedStage := statemachine.LeadApprovalEngineering
	if req.Type == model.ApprovalTypeCommercial {
		expectedStage = statemachine.LeadApprovalCommercial
	}
	if lead.WorkflowStage != expectedStage {
		return nil, core.ErrInvalidTransition
	}

	allowed, err := ws.permService.Resolve(c, octx.RoleId, model.PermLeadsApprove)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.AuthDecisions.WithLabelValues("denied", model.PermLeadsApprove).Inc()
		ws.auditService.AccessDenied(c, octx.OrgId, octx.UserId, model.PermLeadsApprove)
		return nil, core.ErrPermissionDenied
	}

	now := time.Now()
	record := model.ApprovalRecord{
		Type:           req.Type,
		Status:         req.Decision,
		ApproverUserId: octx.UserId,
		DecidedAt:      &now,
	}

	updated, err := ws.leadRepo.RecordApproval(c, leadId, octx.OrgId, record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ws.classifyCASMiss(c, octx, leadId)
		}
		return nil, err
	}

	ws.auditService.Record(c, &model.AuditLogEntry{
		OrgId:       octx.OrgId,
		ActorUserId: octx.UserId,
		Action:      model.AuditActionApproval,
		EntityType:  "lead",
		EntityId:    leadId,
		BeforeState: req.Type,
		AfterState:  req.Decision,
	})

	return updated, nil
}

// loadForOrg 读取线索并做租户校验。
// 跨租户返回 ErrOrgMismatch，路由层与 ErrNotFound 映射为同一响应。
func (ws *WorkflowService) loadForOrg(c context.Context, octx *OrgContext, leadId string) (*model.Lead, error) {
	lead, err := ws.leadRepo.GetLead(c, leadId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	if lead.OrgId != octx.OrgId {
		log.Warnf("cross-org transition attempt: user=%s org=%s lead=%s owner=%s",
			octx.UserId, octx.OrgId, leadId, lead.OrgId)
		return nil, core.ErrOrgMismatch
	}
	return lead, nil
}

// checkApprovals 审批前置校验：
// 进入商务审批要求工程审批已通过，确认要求两类审批都已通过。
func (ws *WorkflowService) checkApprovals(lead *model.Lead, target statemachine.LeadStage) error {
	switch target {
	case statemachine.LeadApprovalCommercial:
		if !approvalApproved(lead.ApprovalRecords, model.ApprovalTypeEngineering) {
			return core.ErrApprovalPending
		}
	case statemachine.LeadConfirmed:
		if !approvalApproved(lead.ApprovalRecords, model.ApprovalTypeEngineering) ||
			!approvalApproved(lead.ApprovalRecords, model.ApprovalTypeCommercial) {
			return core.ErrApprovalPending
		}
	}
	return nil
}

// buildUpdate 计算转移落盘内容：状态投影、可行性结论、审批记录初始化
func (ws *WorkflowService) buildUpdate(lead *model.Lead, target statemachine.LeadStage) repo.TransitionUpdate {
	update := repo.TransitionUpdate{
		Stage:  target,
		Status: target.Status(),
	}

	// 可行性结论跟随离开评估阶段的方向
	if lead.WorkflowStage == statemachine.LeadFeasibilityCheck {
		switch target {
		case statemachine.LeadCosting:
			update.FeasibilityStatus = model.FeasibilityFeasible
		case statemachine.LeadRejected:
			update.FeasibilityStatus = model.FeasibilityInfeasible
		}
	}

	// 进入审批阶段时初始化待定记录
	switch target {
	case statemachine.LeadApprovalEngineering:
		update.ApprovalRecords = ensurePending(lead.ApprovalRecords, model.ApprovalTypeEngineering)
	case statemachine.LeadApprovalCommercial:
		update.ApprovalRecords = ensurePending(lead.ApprovalRecords, model.ApprovalTypeCommercial)
	}

	return update
}

// classifyCASMiss 条件写未命中后的重读，区分三种原因
func (ws *WorkflowService) classifyCASMiss(c context.Context, octx *OrgContext, leadId string) error {
	lead, err := ws.leadRepo.GetLead(c, leadId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return core.ErrNotFound
		}
		return err
	}
	if lead.OrgId != octx.OrgId {
		return core.ErrOrgMismatch
	}
	metrics.TransitionConflicts.Inc()
	return core.ErrConcurrentModification
}

func approvalApproved(records []model.ApprovalRecord, approvalType string) bool {
	for _, r := range records {
		if r.Type == approvalType && r.Status == model.ApprovalStatusApproved {
			return true
		}
	}
	return false
}

// ensurePending 已有同类型记录保持不变，否则追加一条待定记录
func ensurePending(records []model.ApprovalRecord, approvalType string) []model.ApprovalRecord {
	for _, r := range records {
		if r.Type == approvalType {
			return records
		}
	}
	out := make([]model.ApprovalRecord, len(records), len(records)+1)
	copy(out, records)
	return append(out, model.ApprovalRecord{
		Type:   approvalType,
		Status: model.ApprovalStatusPending,
	})
}
