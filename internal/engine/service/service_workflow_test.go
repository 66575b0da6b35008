package service

import (
	"context"
	"errors"
	"testing"

	"github.com/observabil/foundry/internal/engine/core"
	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/statemachine"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 20:40
 * @file: service_workflow_test.go
 * @description:
 */

func newWorkflowFixture(leads ...*model.Lead) (*WorkflowService, *permRepoFake, *auditRepoFake, *leadRepoFake) {
	appCtx := newTestCtx(newCacheFake())
	leadRepo := newLeadRepoFake(leads...)
	roleRepo := newRoleRepoFake(&model.Role{RoleId: "engineer", IsEnabled: model.RoleEnabled})
	permRepo := newPermRepoFake()
	auditRepo := newAuditRepoFake()

	permService := NewPermissionService(appCtx, roleRepo, permRepo, subRepoFake{})
	auditService := NewAuditService(appCtx, auditRepo)
	ws := NewWorkflowService(appCtx, leadRepo, permService, auditService)
	return ws, permRepo, auditRepo, leadRepo
}

func engineerCtx(orgId string) *OrgContext {
	return &OrgContext{UserId: "u-1", OrgId: orgId, RoleId: "engineer"}
}

func TestTransition_HappyPathToConfirmed(t *testing.T) {
	lead := draftLead("lead-1", "org-a")
	ws, permRepo, auditRepo, _ := newWorkflowFixture(lead)
	grantAll(permRepo, "engineer")
	octx := engineerCtx("org-a")
	c := context.Background()

	steps := []statemachine.LeadStage{
		statemachine.LeadFeasibilityCheck,
		statemachine.LeadCosting,
		statemachine.LeadApprovalEngineering,
	}
	var cur *model.Lead
	version := int64(0)
	for _, next := range steps {
		var err error
		cur, err = ws.Transition(c, octx, "lead-1", &model.TransitionReq{
			RequestedStage:  string(next),
			ExpectedVersion: version,
		})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
		version = cur.Version
	}

	if cur.Status != statemachine.LeadStatusPendingApproval {
		t.Errorf("expected status pending_approval, got %s", cur.Status)
	}
	if cur.FeasibilityStatus != model.FeasibilityFeasible {
		t.Errorf("expected feasibility feasible, got %s", cur.FeasibilityStatus)
	}

	// 工程审批通过后才允许进入商务审批
	cur, err := ws.RecordApproval(c, octx, "lead-1", &model.ApprovalReq{
		Type: model.ApprovalTypeEngineering, Decision: model.ApprovalStatusApproved,
	})
	if err != nil {
		t.Fatalf("engineering approval failed: %v", err)
	}

	cur, err = ws.Transition(c, octx, "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadApprovalCommercial),
		ExpectedVersion: cur.Version,
	})
	if err != nil {
		t.Fatalf("transition to commercial approval failed: %v", err)
	}

	cur, err = ws.RecordApproval(c, octx, "lead-1", &model.ApprovalReq{
		Type: model.ApprovalTypeCommercial, Decision: model.ApprovalStatusApproved,
	})
	if err != nil {
		t.Fatalf("commercial approval failed: %v", err)
	}

	cur, err = ws.Transition(c, octx, "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadConfirmed),
		ExpectedVersion: cur.Version,
	})
	if err != nil {
		t.Fatalf("transition to confirmed failed: %v", err)
	}

	if cur.WorkflowStage != statemachine.LeadConfirmed {
		t.Errorf("expected stage CONFIRMED, got %s", cur.WorkflowStage)
	}
	if cur.Status != statemachine.LeadStatusConfirmed {
		t.Errorf("expected status confirmed, got %s", cur.Status)
	}

	// 每次成功转移恰好一条审计；5 次转移 + 2 次审批
	if got := auditRepo.countByAction(model.AuditActionTransition); got != 5 {
		t.Errorf("expected 5 transition audit entries, got %d", got)
	}
	if got := auditRepo.countByAction(model.AuditActionApproval); got != 2 {
		t.Errorf("expected 2 approval audit entries, got %d", got)
	}
}

// 从 Draft 直接跳 Confirmed 必须被转移表拒绝
func TestTransition_StageSkippingRejected(t *testing.T) {
	ws, permRepo, auditRepo, _ := newWorkflowFixture(draftLead("lead-1", "org-a"))
	grantAll(permRepo, "engineer")

	_, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadConfirmed),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := auditRepo.countByAction(model.AuditActionTransition); got != 0 {
		t.Errorf("rejected transition must not be audited, got %d entries", got)
	}
}

func TestTransition_TerminalStageHasNoExit(t *testing.T) {
	lead := draftLead("lead-1", "org-a")
	lead.WorkflowStage = statemachine.LeadCancelled
	lead.Status = statemachine.LeadStatusCancelled
	ws, permRepo, _, _ := newWorkflowFixture(lead)
	grantAll(permRepo, "engineer")

	_, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadDraft),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransition_UnknownStageRejected(t *testing.T) {
	ws, permRepo, _, _ := newWorkflowFixture(draftLead("lead-1", "org-a"))
	grantAll(permRepo, "engineer")

	_, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  "SHIPPING",
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransition_VersionConflict(t *testing.T) {
	ws, permRepo, _, _ := newWorkflowFixture(draftLead("lead-1", "org-a"))
	grantAll(permRepo, "engineer")
	octx := engineerCtx("org-a")
	c := context.Background()

	if _, err := ws.Transition(c, octx, "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadFeasibilityCheck),
		ExpectedVersion: 0,
	}); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}

	// 第二个并发调用方还拿着 version=0
	_, err := ws.Transition(c, octx, "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadCancelled),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
}

// 跨租户转移对调用方表现为 ErrOrgMismatch，路由层与 NotFound 同响应
func TestTransition_OrgIsolation(t *testing.T) {
	ws, permRepo, _, _ := newWorkflowFixture(draftLead("lead-1", "org-a"))
	grantAll(permRepo, "engineer")

	_, err := ws.Transition(context.Background(), engineerCtx("org-b"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadFeasibilityCheck),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrOrgMismatch) {
		t.Fatalf("expected ErrOrgMismatch, got %v", err)
	}
}

func TestTransition_LeadNotFound(t *testing.T) {
	ws, permRepo, _, _ := newWorkflowFixture()
	grantAll(permRepo, "engineer")

	_, err := ws.Transition(context.Background(), engineerCtx("org-a"), "missing", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadFeasibilityCheck),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// 工程审批未通过时不得进入商务审批
func TestTransition_ApprovalGating(t *testing.T) {
	lead := draftLead("lead-1", "org-a")
	lead.WorkflowStage = statemachine.LeadApprovalEngineering
	lead.Status = statemachine.LeadStatusPendingApproval
	lead.ApprovalRecords = []model.ApprovalRecord{
		{Type: model.ApprovalTypeEngineering, Status: model.ApprovalStatusPending},
	}
	ws, permRepo, _, _ := newWorkflowFixture(lead)
	grantAll(permRepo, "engineer")

	_, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadApprovalCommercial),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrApprovalPending) {
		t.Fatalf("expected ErrApprovalPending, got %v", err)
	}
}

func TestTransition_ConfirmRequiresBothApprovals(t *testing.T) {
	lead := draftLead("lead-1", "org-a")
	lead.WorkflowStage = statemachine.LeadApprovalCommercial
	lead.Status = statemachine.LeadStatusPendingApproval
	lead.ApprovalRecords = []model.ApprovalRecord{
		{Type: model.ApprovalTypeEngineering, Status: model.ApprovalStatusApproved},
		{Type: model.ApprovalTypeCommercial, Status: model.ApprovalStatusPending},
	}
	ws, permRepo, _, _ := newWorkflowFixture(lead)
	grantAll(permRepo, "engineer")

	_, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadConfirmed),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrApprovalPending) {
		t.Fatalf("expected ErrApprovalPending, got %v", err)
	}
}

// 没有目标阶段对应的权限点时拒绝，并留下 access_denied 审计
func TestTransition_PermissionDenied(t *testing.T) {
	ws, permRepo, auditRepo, _ := newWorkflowFixture(draftLead("lead-1", "org-a"))
	_ = permRepo.UpsertGrant(context.Background(), &model.RolePermission{
		RoleId: "engineer", SubmoduleId: model.PermLeadsView, Granted: true,
	})

	_, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadFeasibilityCheck),
		ExpectedVersion: 0,
	})
	if !errors.Is(err, core.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if got := auditRepo.countByAction(model.AuditActionAccessDenied); got != 1 {
		t.Errorf("expected 1 access_denied audit entry, got %d", got)
	}
}

// 离开评估阶段的方向决定可行性结论
func TestTransition_FeasibilityRejectionPath(t *testing.T) {
	lead := draftLead("lead-1", "org-a")
	lead.WorkflowStage = statemachine.LeadFeasibilityCheck
	ws, permRepo, _, _ := newWorkflowFixture(lead)
	grantAll(permRepo, "engineer")

	updated, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadRejected),
		ExpectedVersion: 0,
	})
	if err != nil {
		t.Fatalf("transition to rejected failed: %v", err)
	}
	if updated.FeasibilityStatus != model.FeasibilityInfeasible {
		t.Errorf("expected feasibility infeasible, got %s", updated.FeasibilityStatus)
	}
	if updated.Status != statemachine.LeadStatusRejected {
		t.Errorf("expected status rejected, got %s", updated.Status)
	}
}

// 进入审批阶段要初始化待定记录
func TestTransition_SeedsPendingApproval(t *testing.T) {
	lead := draftLead("lead-1", "org-a")
	lead.WorkflowStage = statemachine.LeadCosting
	ws, permRepo, _, _ := newWorkflowFixture(lead)
	grantAll(permRepo, "engineer")

	updated, err := ws.Transition(context.Background(), engineerCtx("org-a"), "lead-1", &model.TransitionReq{
		RequestedStage:  string(statemachine.LeadApprovalEngineering),
		ExpectedVersion: 0,
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if len(updated.ApprovalRecords) != 1 {
		t.Fatalf("expected 1 approval record, got %d", len(updated.ApprovalRecords))
	}
	rec := updated.ApprovalRecords[0]
	if rec.Type != model.ApprovalTypeEngineering || rec.Status != model.ApprovalStatusPending {
		t.Errorf("unexpected seeded record: %+v", rec)
	}
}

func TestRecordApproval_WrongStage(t *testing.T) {
	ws, permRepo, _, _ := newWorkflowFixture(draftLead("lead-1", "org-a"))
	grantAll(permRepo, "engineer")

	_, err := ws.RecordApproval(context.Background(), engineerCtx("org-a"), "lead-1", &model.ApprovalReq{
		Type: model.ApprovalTypeEngineering, Decision: model.ApprovalStatusApproved,
	})
	if !errors.Is(err, core.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRecordApproval_InvalidTypeOrDecision(t *testing.T) {
	ws, permRepo, _, _ := newWorkflowFixture(draftLead("lead-1", "org-a"))
	grantAll(permRepo, "engineer")
	octx := engineerCtx("org-a")
	c := context.Background()

	if _, err := ws.RecordApproval(c, octx, "lead-1", &model.ApprovalReq{
		Type: "legal", Decision: model.ApprovalStatusApproved,
	}); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("unknown approval type: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := ws.RecordApproval(c, octx, "lead-1", &model.ApprovalReq{
		Type: model.ApprovalTypeEngineering, Decision: "maybe",
	}); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("unknown decision: expected ErrInvalidTransition, got %v", err)
	}
}

func TestRecordApproval_IncrementsVersion(t *testing.T) {
	lead := draftLead("lead-1", "org-a")
	lead.WorkflowStage = statemachine.LeadApprovalEngineering
	lead.Status = statemachine.LeadStatusPendingApproval
	lead.ApprovalRecords = []model.ApprovalRecord{
		{Type: model.ApprovalTypeEngineering, Status: model.ApprovalStatusPending},
	}
	lead.Version = 3
	ws, permRepo, _, _ := newWorkflowFixture(lead)
	grantAll(permRepo, "engineer")

	updated, err := ws.RecordApproval(context.Background(), engineerCtx("org-a"), "lead-1", &model.ApprovalReq{
		Type: model.ApprovalTypeEngineering, Decision: model.ApprovalStatusApproved,
	})
	if err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	if updated.Version != 4 {
		t.Errorf("expected version 4, got %d", updated.Version)
	}
	if len(updated.ApprovalRecords) != 1 {
		t.Fatalf("record should be updated in place, got %d records", len(updated.ApprovalRecords))
	}
	rec := updated.ApprovalRecords[0]
	if rec.Status != model.ApprovalStatusApproved || rec.ApproverUserId != "u-1" || rec.DecidedAt == nil {
		t.Errorf("unexpected approval record: %+v", rec)
	}
}
