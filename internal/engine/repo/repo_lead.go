package repo

import (
	"context"
	"errors"
	"time"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/statemachine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/21 14:20
 * @file: repo_lead.go
 * @description: 线索仓库。转移是对 (lead_id, org_id, version) 的单次条件写，
 *               两个携带相同 expected_version 的并发调用者恰有一个成功。
 */

// TransitionUpdate 一次转移要落盘的字段
type TransitionUpdate struct {
	Stage             statemachine.LeadStage
	Status            statemachine.LeadStatus
	FeasibilityStatus string                 // 为空则不变
	ApprovalRecords   []model.ApprovalRecord // nil 则不变
}

type ILeadRepository interface {
	CreateLead(c context.Context, lead *model.Lead) error
	// GetLead 不带租户过滤，仅供服务层区分 NotFound 与 OrgMismatch，绝不直接对外
	GetLead(c context.Context, leadId string) (*model.Lead, error)
	// GetLeadScoped 带租户过滤的读取
	GetLeadScoped(c context.Context, leadId, orgId string) (*model.Lead, error)
	ListLeads(c context.Context, orgId string, pageNum, pageSize int) ([]model.Lead, error)
	// TransitionLead 原子条件写；过滤器不命中返回 mongo.ErrNoDocuments
	TransitionLead(c context.Context, leadId, orgId string, expectedVersion int64, update TransitionUpdate) (*model.Lead, error)
	// RecordApproval 更新或追加一条审批记录并递增 version
	RecordApproval(c context.Context, leadId, orgId string, record model.ApprovalRecord) (*model.Lead, error)
}

type LeadRepo struct {
	Ctx *ctx.Context
}

func NewLeadRepo(appCtx *ctx.Context) ILeadRepository {
	return &LeadRepo{Ctx: appCtx}
}

// CreateLead 创建线索，初始阶段 Draft、version=0
func (r *LeadRepo) CreateLead(c context.Context, lead *model.Lead) error {
	_, err := r.Ctx.MongoIns.GetCollection(CollLeads).InsertOne(c, lead)
	return err
}

func (r *LeadRepo) GetLead(c context.Context, leadId string) (*model.Lead, error) {
	var lead model.Lead
	err := r.Ctx.MongoIns.GetCollection(CollLeads).
		FindOne(c, bson.M{"lead_id": leadId}).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepo) GetLeadScoped(c context.Context, leadId, orgId string) (*model.Lead, error) {
	var lead model.Lead
	err := r.Ctx.MongoIns.GetCollection(CollLeads).
		FindOne(c, bson.M{"lead_id": leadId, "org_id": orgId}).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// ListLeads 分页获取组织内线索
func (r *LeadRepo) ListLeads(c context.Context, orgId string, pageNum, pageSize int) ([]model.Lead, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((pageNum - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.Ctx.MongoIns.GetCollection(CollLeads).
		Find(c, bson.M{"org_id": orgId}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c)

	var leads []model.Lead
	if err := cursor.All(c, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// TransitionLead 以 (lead_id, org_id, version) 为条件的单次 FindOneAndUpdate。
// 版本不匹配、实体不存在、租户不符都表现为过滤器不命中，由服务层重读区分原因。
func (r *LeadRepo) TransitionLead(c context.Context, leadId, orgId string, expectedVersion int64, update TransitionUpdate) (*model.Lead, error) {
	filter := bson.M{
		"lead_id": leadId,
		"org_id":  orgId,
		"version": expectedVersion,
	}

	set := bson.M{
		"workflow_stage": update.Stage,
		"status":         update.Status,
		"updated_at":     time.Now(),
	}
	if update.FeasibilityStatus != "" {
		set["feasibility_status"] = update.FeasibilityStatus
	}
	if update.ApprovalRecords != nil {
		set["approval_records"] = update.ApprovalRecords
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var lead model.Lead
	err := r.Ctx.MongoIns.GetCollection(CollLeads).
		FindOneAndUpdate(c, filter, bson.M{
			"$set": set,
			"$inc": bson.M{"version": 1},
		}, opts).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// RecordApproval 已有同类型记录则更新，否则追加；两种路径都递增 version
func (r *LeadRepo) RecordApproval(c context.Context, leadId, orgId string, record model.ApprovalRecord) (*model.Lead, error) {
	coll := r.Ctx.MongoIns.GetCollection(CollLeads)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// 先尝试更新已存在的同类型记录
	var lead model.Lead
	err := coll.FindOneAndUpdate(c,
		bson.M{
			"lead_id":          leadId,
			"org_id":           orgId,
			"approval_records": bson.M{"$elemMatch": bson.M{"type": record.Type}},
		},
		bson.M{
			"$set": bson.M{
				"approval_records.$.status":           record.Status,
				"approval_records.$.approver_user_id": record.ApproverUserId,
				"approval_records.$.decided_at":       record.DecidedAt,
				"updated_at":                          time.Now(),
			},
			"$inc": bson.M{"version": 1},
		}, opts).Decode(&lead)
	if err == nil {
		return &lead, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// 不存在则追加
	err = coll.FindOneAndUpdate(c,
		bson.M{"lead_id": leadId, "org_id": orgId},
		bson.M{
			"$push": bson.M{"approval_records": record},
			"$set":  bson.M{"updated_at": time.Now()},
			"$inc":  bson.M{"version": 1},
		}, opts).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}
