package repo

import (
	"context"
	"time"

	"github.com/observabil/foundry/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/20 19:05
 * @file: repo.go
 * @description: mongodb collections and index bootstrap
 */

// 集合名
const (
	CollUsers           = "users"
	CollOrganizations   = "organizations"
	CollOrgMemberships  = "org_memberships"
	CollRoles           = "roles"
	CollSubmodules      = "submodules"
	CollRolePermissions = "role_permissions"
	CollLeads           = "leads"
	CollAuditLog        = "audit_log"
)

// EnsureIndexes 创建唯一索引，保证数据模型的唯一性约束：
// org_memberships (user_id, org_id) 唯一，role_permissions (role_id, submodule_id) 唯一，
// leads lead_id 唯一，audit_log 按 entity_id 查询。
func EnsureIndexes(appCtx *ctx.Context) error {
	c, cancel := context.WithTimeout(appCtx.GetCtx(), 30*time.Second)
	defer cancel()

	db := appCtx.MongoIns

	type collIndexes struct {
		coll   string
		models []mongo.IndexModel
	}

	indexes := []collIndexes{
		{CollUsers, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "user_id", Value: 1}}),
			uniqueIndex(bson.D{{Key: "username", Value: 1}}),
		}},
		{CollOrganizations, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "org_id", Value: 1}}),
		}},
		{CollOrgMemberships, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "user_id", Value: 1}, {Key: "org_id", Value: 1}}),
			{Keys: bson.D{{Key: "org_id", Value: 1}}},
		}},
		{CollRoles, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "role_id", Value: 1}}),
		}},
		{CollSubmodules, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "submodule_id", Value: 1}}),
			uniqueIndex(bson.D{{Key: "module", Value: 1}, {Key: "name", Value: 1}}),
		}},
		{CollRolePermissions, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "role_id", Value: 1}, {Key: "submodule_id", Value: 1}}),
		}},
		{CollLeads, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "lead_id", Value: 1}}),
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "workflow_stage", Value: 1}}},
		}},
		{CollAuditLog, []mongo.IndexModel{
			uniqueIndex(bson.D{{Key: "entry_id", Value: 1}}),
			{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "entry_id", Value: 1}}},
		}},
	}

	for _, ci := range indexes {
		if _, err := db.GetCollection(ci.coll).Indexes().CreateMany(c, ci.models); err != nil {
			return err
		}
	}
	return nil
}

func uniqueIndex(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(true),
	}
}
