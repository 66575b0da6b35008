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
 * @time: 2025/6/20 19:40
 * @file: repo_membership.go
 * @description: 组织成员仓库
 */

type IMembershipRepository interface {
	// GetActiveMembership 获取状态为正常的成员关系；不存在返回 mongo.ErrNoDocuments
	GetActiveMembership(c context.Context, userId, orgId string) (*model.OrganizationMember, error)
	ListMembers(c context.Context, orgId string, pageNum, pageSize int) ([]model.OrganizationMember, error)
	AddMember(c context.Context, member *model.OrganizationMember) error
}

type MembershipRepo struct {
	Ctx *ctx.Context
}

func NewMembershipRepo(appCtx *ctx.Context) IMembershipRepository {
	return &MembershipRepo{Ctx: appCtx}
}

// GetActiveMembership 仅返回状态为正常的成员关系，待接受/禁用一律视为不存在
func (r *MembershipRepo) GetActiveMembership(c context.Context, userId, orgId string) (*model.OrganizationMember, error) {
	var member model.OrganizationMember
	err := r.Ctx.MongoIns.GetCollection(CollOrgMemberships).
		FindOne(c, bson.M{
			"user_id": userId,
			"org_id":  orgId,
			"status":  model.OrgMemberStatusActive,
		}).Decode(&member)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers 分页获取组织成员
func (r *MembershipRepo) ListMembers(c context.Context, orgId string, pageNum, pageSize int) ([]model.OrganizationMember, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "user_id", Value: 1}}).
		SetSkip(int64((pageNum - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.Ctx.MongoIns.GetCollection(CollOrgMemberships).
		Find(c, bson.M{"org_id": orgId}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c)

	var members []model.OrganizationMember
	if err := cursor.All(c, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember 添加组织成员
func (r *MembershipRepo) AddMember(c context.Context, member *model.OrganizationMember) error {
	_, err := r.Ctx.MongoIns.GetCollection(CollOrgMemberships).InsertOne(c, member)
	return err
}
