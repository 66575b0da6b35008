package repo

import (
	"context"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/20 19:22
 * @file: repo_user.go
 * @description: 用户仓库
 */

type IUserRepository interface {
	GetByUserId(c context.Context, userId string) (*model.User, error)
	GetByUsername(c context.Context, username string) (*model.User, error)
	CreateUser(c context.Context, user *model.User) error
}

type UserRepo struct {
	Ctx *ctx.Context
}

func NewUserRepo(appCtx *ctx.Context) IUserRepository {
	return &UserRepo{Ctx: appCtx}
}

// GetByUserId 根据用户ID获取用户
func (r *UserRepo) GetByUserId(c context.Context, userId string) (*model.User, error) {
	var user model.User
	err := r.Ctx.MongoIns.GetCollection(CollUsers).
		FindOne(c, bson.M{"user_id": userId, "is_enabled": 1}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepo) GetByUsername(c context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.Ctx.MongoIns.GetCollection(CollUsers).
		FindOne(c, bson.M{"username": username, "is_enabled": 1}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser 创建用户
func (r *UserRepo) CreateUser(c context.Context, user *model.User) error {
	_, err := r.Ctx.MongoIns.GetCollection(CollUsers).InsertOne(c, user)
	return err
}
