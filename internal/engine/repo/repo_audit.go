package repo

import (
	"context"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/id"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/21 15:02
 * @file: repo_audit.go
 * @description: 审计日志仓库。仅追加，无更新、无删除入口。
 */

type IAuditRepository interface {
	// Append 写入一条审计日志；entry_id 为空时自动生成 ULID
	Append(c context.Context, entry *model.AuditLogEntry) error
	// QueryByEntity 按实体查询（租户内），entry_id 升序即创建顺序
	QueryByEntity(c context.Context, orgId, entityId string, pageNum, pageSize int) ([]model.AuditLogEntry, error)
	CountByEntity(c context.Context, orgId, entityId string) (int64, error)
}

type AuditRepo struct {
	Ctx *ctx.Context
}

func NewAuditRepo(appCtx *ctx.Context) IAuditRepository {
	return &AuditRepo{Ctx: appCtx}
}

func (r *AuditRepo) Append(c context.Context, entry *model.AuditLogEntry) error {
	if entry.EntryId == "" {
		entry.EntryId = id.GetUlid()
	}
	_, err := r.Ctx.MongoIns.GetCollection(CollAuditLog).InsertOne(c, entry)
	return err
}

// QueryByEntity 按 entry_id 升序分页，ULID 的字典序即时间序
func (r *AuditRepo) QueryByEntity(c context.Context, orgId, entityId string, pageNum, pageSize int) ([]model.AuditLogEntry, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "entry_id", Value: 1}}).
		SetSkip(int64((pageNum - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.Ctx.MongoIns.GetCollection(CollAuditLog).
		Find(c, bson.M{"org_id": orgId, "entity_id": entityId}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c)

	var entries []model.AuditLogEntry
	if err := cursor.All(c, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *AuditRepo) CountByEntity(c context.Context, orgId, entityId string) (int64, error) {
	return r.Ctx.MongoIns.GetCollection(CollAuditLog).
		CountDocuments(c, bson.M{"org_id": orgId, "entity_id": entityId})
}
