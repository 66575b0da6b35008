package model

import (
	"time"

	"github.com/observabil/foundry/pkg/statemachine"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/19 21:10
 * @file: model_lead.go
 * @description: 制造线索（工作流主体）
 */

// Lead 线索。OrgId 创建后不可变；Status 始终是 WorkflowStage 的投影；
// Version 每次成功转移单调递增，是乐观并发控制的比较字段。
// 线索永不物理删除，终止状态保留全部历史。
type Lead struct {
	BaseModel         `bson:",inline"`
	LeadId            string                  `bson:"lead_id" json:"leadId"`
	OrgId             string                  `bson:"org_id" json:"orgId"`
	Title             string                  `bson:"title" json:"title"`                          // 线索标题
	CustomerName      string                  `bson:"customer_name" json:"customerName"`           // 客户名称
	Status            statemachine.LeadStatus `bson:"status" json:"status"`                        // 粗粒度状态（投影）
	WorkflowStage     statemachine.LeadStage  `bson:"workflow_stage" json:"workflowStage"`         // 细粒度阶段
	FeasibilityStatus string                  `bson:"feasibility_status" json:"feasibilityStatus"` // 可行性结论
	ApprovalRecords   []ApprovalRecord        `bson:"approval_records" json:"approvalRecords"`     // 审批记录（有序）
	Version           int64                   `bson:"version" json:"version"`                      // 乐观并发版本号
	CreatedBy         string                  `bson:"created_by" json:"createdBy"`
}

func (Lead) CollectionName() string {
	return "leads"
}

// ApprovalRecord 审批记录
type ApprovalRecord struct {
	Type           string     `bson:"type" json:"type"`     // engineering / commercial
	Status         string     `bson:"status" json:"status"` // pending / approved / rejected
	ApproverUserId string     `bson:"approver_user_id" json:"approverUserId"`
	DecidedAt      *time.Time `bson:"decided_at,omitempty" json:"decidedAt,omitempty"`
}

// 审批类型
const (
	ApprovalTypeEngineering = "engineering"
	ApprovalTypeCommercial  = "commercial"
)

// 审批状态
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// FeasibilityStatus 可行性结论
const (
	FeasibilityUnchecked  = "unchecked"
	FeasibilityFeasible   = "feasible"
	FeasibilityInfeasible = "infeasible"
)

// CreateLeadReq 创建线索请求
type CreateLeadReq struct {
	Title        string `json:"title"`
	CustomerName string `json:"customerName"`
}

// TransitionReq 工作流转移请求
type TransitionReq struct {
	RequestedStage  string `json:"requestedStage"`
	ExpectedVersion int64  `json:"expectedVersion"`
}

// ApprovalReq 审批决定请求
type ApprovalReq struct {
	Type     string `json:"type"`     // engineering / commercial
	Decision string `json:"decision"` // approved / rejected
}
