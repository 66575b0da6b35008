// Copyright 2025 Foundry Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

// LeadStage 线索工作流阶段（细粒度）
type LeadStage string

const (
	LeadDraft               LeadStage = "DRAFT"
	LeadFeasibilityCheck    LeadStage = "FEASIBILITY_CHECK"
	LeadCosting             LeadStage = "COSTING"
	LeadApprovalEngineering LeadStage = "APPROVAL_ENGINEERING"
	LeadApprovalCommercial  LeadStage = "APPROVAL_COMMERCIAL"
	LeadConfirmed           LeadStage = "CONFIRMED"
	LeadRejected            LeadStage = "REJECTED"
	LeadCancelled           LeadStage = "CANCELLED"
)

// LeadStatus 线索粗粒度状态，始终由 LeadStage 投影得到，不可独立设置
type LeadStatus string

const (
	LeadStatusOpen            LeadStatus = "open"
	LeadStatusPendingApproval LeadStatus = "pending_approval"
	LeadStatusConfirmed       LeadStatus = "confirmed"
	LeadStatusRejected        LeadStatus = "rejected"
	LeadStatusCancelled       LeadStatus = "cancelled"
)

// IsTerminal 判断是否为终止状态
func (s LeadStage) IsTerminal() bool {
	return s == LeadConfirmed || s == LeadRejected || s == LeadCancelled
}

// IsValid reports whether s is a member of the closed stage enumeration.
func (s LeadStage) IsValid() bool {
	switch s {
	case LeadDraft, LeadFeasibilityCheck, LeadCosting,
		LeadApprovalEngineering, LeadApprovalCommercial,
		LeadConfirmed, LeadRejected, LeadCancelled:
		return true
	}
	return false
}

// Status 由阶段投影出粗粒度状态
func (s LeadStage) Status() LeadStatus {
	switch s {
	case LeadApprovalEngineering, LeadApprovalCommercial:
		return LeadStatusPendingApproval
	case LeadConfirmed:
		return LeadStatusConfirmed
	case LeadRejected:
		return LeadStatusRejected
	case LeadCancelled:
		return LeadStatusCancelled
	default:
		return LeadStatusOpen
	}
}

// NewLeadStateMachine 创建线索生命周期状态机。
// 终止状态（CONFIRMED/REJECTED/CANCELLED）没有出边。
func NewLeadStateMachine() *StateMachine[LeadStage] {
	sm := NewWithState(LeadDraft)

	sm.Allow(LeadDraft, LeadFeasibilityCheck, LeadRejected, LeadCancelled).
		Allow(LeadFeasibilityCheck, LeadCosting, LeadRejected, LeadCancelled).
		Allow(LeadCosting, LeadApprovalEngineering, LeadRejected, LeadCancelled).
		Allow(LeadApprovalEngineering, LeadApprovalCommercial, LeadRejected, LeadCancelled).
		Allow(LeadApprovalCommercial, LeadConfirmed, LeadRejected, LeadCancelled)

	return sm
}
