package repo

import (
	"context"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/20 20:15
 * @file: repo_submodule.go
 * @description: 权限点仓库
 */

type ISubmoduleRepository interface {
	// Seed 将闭合枚举写入集合（幂等 upsert）
	Seed(c context.Context) error
	Exists(c context.Context, submoduleId string) (bool, error)
	ListSubmodules(c context.Context) ([]model.Submodule, error)
}

type SubmoduleRepo struct {
	Ctx *ctx.Context
}

func NewSubmoduleRepo(appCtx *ctx.Context) ISubmoduleRepository {
	return &SubmoduleRepo{Ctx: appCtx}
}

// Seed 启动时注册全部权限点，重复执行无副作用
func (r *SubmoduleRepo) Seed(c context.Context) error {
	coll := r.Ctx.MongoIns.GetCollection(CollSubmodules)
	for _, sub := range model.RegisteredSubmodules() {
		filter := bson.M{"submodule_id": sub.SubmoduleId}
		update := bson.M{"$set": bson.M{
			"submodule_id": sub.SubmoduleId,
			"module":       sub.Module,
			"name":         sub.Name,
			"description":  sub.Description,
			"is_enabled":   sub.IsEnabled,
		}}
		if _, err := coll.UpdateOne(c, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

// Exists 判断权限点是否已注册
func (r *SubmoduleRepo) Exists(c context.Context, submoduleId string) (bool, error) {
	count, err := r.Ctx.MongoIns.GetCollection(CollSubmodules).
		CountDocuments(c, bson.M{"submodule_id": submoduleId, "is_enabled": 1})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListSubmodules 获取全部权限点
func (r *SubmoduleRepo) ListSubmodules(c context.Context) ([]model.Submodule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "module", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.Ctx.MongoIns.GetCollection(CollSubmodules).
		Find(c, bson.M{"is_enabled": 1}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c)

	var subs []model.Submodule
	if err := cursor.All(c, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
