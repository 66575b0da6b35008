package repo

import (
	"context"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/pkg/ctx"
	"go.mongodb.org/mongo-driver/bson"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/20 19:12
 * @file: repo_organization.go
 * @description: 组织仓库
 */

type IOrganizationRepository interface {
	GetOrganization(c context.Context, orgId string) (*model.Organization, error)
	CreateOrganization(c context.Context, org *model.Organization) error
}

type OrganizationRepo struct {
	Ctx *ctx.Context
}

func NewOrganizationRepo(appCtx *ctx.Context) IOrganizationRepository {
	return &OrganizationRepo{Ctx: appCtx}
}

// GetOrganization 获取启用状态的组织
func (r *OrganizationRepo) GetOrganization(c context.Context, orgId string) (*model.Organization, error) {
	var org model.Organization
	err := r.Ctx.MongoIns.GetCollection(CollOrganizations).
		FindOne(c, bson.M{"org_id": orgId, "status": model.OrgStatusActive}).Decode(&org)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// CreateOrganization 创建组织
func (r *OrganizationRepo) CreateOrganization(c context.Context, org *model.Organization) error {
	_, err := r.Ctx.MongoIns.GetCollection(CollOrganizations).InsertOne(c, org)
	return err
}
