package model

import "time"

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/19 21:32
 * @file: model_audit_log.go
 * @description: 审计日志（仅追加，不可变）
 */

// AuditLogEntry 审计日志条目。EntryId 为 ULID，按创建顺序可排序。
// 任何组件都不允许更新或删除已写入的条目。
type AuditLogEntry struct {
	EntryId     string    `bson:"entry_id" json:"entryId"`
	OrgId       string    `bson:"org_id" json:"orgId"`
	ActorUserId string    `bson:"actor_user_id" json:"actorUserId"`
	Action      string    `bson:"action" json:"action"`           // 如 workflow.transition / access_denied
	EntityType  string    `bson:"entity_type" json:"entityType"`  // 如 lead / submodule
	EntityId    string    `bson:"entity_id" json:"entityId"`
	BeforeState string    `bson:"before_state" json:"beforeState"`
	AfterState  string    `bson:"after_state" json:"afterState"`
	OccurredAt  time.Time `bson:"occurred_at" json:"occurredAt"`
}

func (AuditLogEntry) CollectionName() string {
	return "audit_log"
}

// 审计动作
const (
	AuditActionLeadCreated  = "lead.created"
	AuditActionTransition   = "workflow.transition"
	AuditActionApproval     = "workflow.approval"
	AuditActionAccessDenied = "access_denied"
)
