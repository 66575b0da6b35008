package service

import (
	"context"
	"sync"
	"time"

	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/statemachine"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// 共享测试夹具：内存实现的仓库与缓存

func newTestCtx(c cacheFake) *ctx.Context {
	return &ctx.Context{
		Cache: c,
		Ctx:   context.Background(),
		Log:   zap.NewNop().Sugar(),
	}
}

// cacheFake 内存 ICache 实现，忽略 TTL 过期
type cacheFake map[string]string

func newCacheFake() cacheFake {
	return make(cacheFake)
}

func (f cacheFake) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := f[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f cacheFake) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		f[key] = v
	case []byte:
		f[key] = string(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f cacheFake) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f[k]; ok {
			delete(f, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f cacheFake) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f cacheFake) TTL(_ context.Context, _ string) *redis.DurationCmd {
	return redis.NewDurationResult(time.Minute, nil)
}

func (f cacheFake) Expire(_ context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

// roleRepoFake 内存角色仓库
type roleRepoFake struct {
	roles map[string]*model.Role
}

func newRoleRepoFake(roles ...*model.Role) *roleRepoFake {
	f := &roleRepoFake{roles: make(map[string]*model.Role)}
	for _, r := range roles {
		f.roles[r.RoleId] = r
	}
	return f
}

func (f *roleRepoFake) GetRole(_ context.Context, roleId string) (*model.Role, error) {
	if r, ok := f.roles[roleId]; ok {
		return r, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *roleRepoFake) CreateRole(_ context.Context, role *model.Role) error {
	f.roles[role.RoleId] = role
	return nil
}

func (f *roleRepoFake) ListRoles(_ context.Context, _, _ int) ([]model.Role, error) {
	out := make([]model.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

// permRepoFake 内存授权行仓库
type permRepoFake struct {
	grants map[string]*model.RolePermission // roleId + "/" + submoduleId
}

func newPermRepoFake() *permRepoFake {
	return &permRepoFake{grants: make(map[string]*model.RolePermission)}
}

func (f *permRepoFake) key(roleId, submoduleId string) string {
	return roleId + "/" + submoduleId
}

func (f *permRepoFake) GetGrant(_ context.Context, roleId, submoduleId string) (*model.RolePermission, error) {
	if g, ok := f.grants[f.key(roleId, submoduleId)]; ok {
		return g, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *permRepoFake) UpsertGrant(_ context.Context, grant *model.RolePermission) error {
	f.grants[f.key(grant.RoleId, grant.SubmoduleId)] = grant
	return nil
}

func (f *permRepoFake) RemoveGrant(_ context.Context, roleId, submoduleId string) error {
	delete(f.grants, f.key(roleId, submoduleId))
	return nil
}

func (f *permRepoFake) ListByRole(_ context.Context, roleId string) ([]model.RolePermission, error) {
	var out []model.RolePermission
	for _, g := range f.grants {
		if g.RoleId == roleId {
			out = append(out, *g)
		}
	}
	return out, nil
}

// subRepoFake 权限点仓库，直接用闭合枚举
type subRepoFake struct{}

func (subRepoFake) Seed(_ context.Context) error { return nil }

func (subRepoFake) Exists(_ context.Context, submoduleId string) (bool, error) {
	return model.IsRegisteredSubmodule(submoduleId), nil
}

func (subRepoFake) ListSubmodules(_ context.Context) ([]model.Submodule, error) {
	return model.RegisteredSubmodules(), nil
}

// membershipRepoFake 内存成员仓库
type membershipRepoFake struct {
	members map[string]*model.OrganizationMember // userId + "/" + orgId
}

func newMembershipRepoFake(members ...*model.OrganizationMember) *membershipRepoFake {
	f := &membershipRepoFake{members: make(map[string]*model.OrganizationMember)}
	for _, m := range members {
		f.members[m.UserId+"/"+m.OrgId] = m
	}
	return f
}

func (f *membershipRepoFake) GetActiveMembership(_ context.Context, userId, orgId string) (*model.OrganizationMember, error) {
	if m, ok := f.members[userId+"/"+orgId]; ok && m.Status == model.OrgMemberStatusActive {
		return m, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *membershipRepoFake) ListMembers(_ context.Context, orgId string, _, _ int) ([]model.OrganizationMember, error) {
	var out []model.OrganizationMember
	for _, m := range f.members {
		if m.OrgId == orgId {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *membershipRepoFake) AddMember(_ context.Context, member *model.OrganizationMember) error {
	f.members[member.UserId+"/"+member.OrgId] = member
	return nil
}

// userRepoFake 内存用户仓库
type userRepoFake struct {
	users map[string]*model.User // username 索引
}

func newUserRepoFake(users ...*model.User) *userRepoFake {
	f := &userRepoFake{users: make(map[string]*model.User)}
	for _, u := range users {
		f.users[u.Username] = u
	}
	return f
}

func (f *userRepoFake) GetByUserId(_ context.Context, userId string) (*model.User, error) {
	for _, u := range f.users {
		if u.UserId == userId {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *userRepoFake) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *userRepoFake) CreateUser(_ context.Context, user *model.User) error {
	f.users[user.Username] = user
	return nil
}

// orgRepoFake 内存组织仓库，只返回状态为正常的组织
type orgRepoFake struct {
	orgs map[string]*model.Organization
}

func newOrgRepoFake(orgs ...*model.Organization) *orgRepoFake {
	f := &orgRepoFake{orgs: make(map[string]*model.Organization)}
	for _, o := range orgs {
		f.orgs[o.OrgId] = o
	}
	return f
}

func (f *orgRepoFake) GetOrganization(_ context.Context, orgId string) (*model.Organization, error) {
	if o, ok := f.orgs[orgId]; ok && o.Status == model.OrgStatusActive {
		return o, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *orgRepoFake) CreateOrganization(_ context.Context, org *model.Organization) error {
	f.orgs[org.OrgId] = org
	return nil
}

// leadRepoFake 内存线索仓库，TransitionLead 复刻条件写语义
type leadRepoFake struct {
	mu    sync.Mutex
	leads map[string]*model.Lead
}

func newLeadRepoFake(leads ...*model.Lead) *leadRepoFake {
	f := &leadRepoFake{leads: make(map[string]*model.Lead)}
	for _, l := range leads {
		f.leads[l.LeadId] = l
	}
	return f
}

func (f *leadRepoFake) CreateLead(_ context.Context, lead *model.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads[lead.LeadId] = lead
	return nil
}

func (f *leadRepoFake) GetLead(_ context.Context, leadId string) (*model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.leads[leadId]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *leadRepoFake) GetLeadScoped(_ context.Context, leadId, orgId string) (*model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.leads[leadId]; ok && l.OrgId == orgId {
		cp := *l
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *leadRepoFake) ListLeads(_ context.Context, orgId string, _, _ int) ([]model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Lead
	for _, l := range f.leads {
		if l.OrgId == orgId {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *leadRepoFake) TransitionLead(_ context.Context, leadId, orgId string, expectedVersion int64, update repo.TransitionUpdate) (*model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[leadId]
	if !ok || l.OrgId != orgId || l.Version != expectedVersion {
		return nil, mongo.ErrNoDocuments
	}
	l.WorkflowStage = update.Stage
	l.Status = update.Status
	if update.FeasibilityStatus != "" {
		l.FeasibilityStatus = update.FeasibilityStatus
	}
	if update.ApprovalRecords != nil {
		l.ApprovalRecords = update.ApprovalRecords
	}
	l.Version++
	cp := *l
	return &cp, nil
}

func (f *leadRepoFake) RecordApproval(_ context.Context, leadId, orgId string, record model.ApprovalRecord) (*model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[leadId]
	if !ok || l.OrgId != orgId {
		return nil, mongo.ErrNoDocuments
	}
	replaced := false
	for i := range l.ApprovalRecords {
		if l.ApprovalRecords[i].Type == record.Type {
			l.ApprovalRecords[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		l.ApprovalRecords = append(l.ApprovalRecords, record)
	}
	l.Version++
	cp := *l
	return &cp, nil
}

// auditRepoFake 内存审计仓库
type auditRepoFake struct {
	mu      sync.Mutex
	entries []model.AuditLogEntry
}

func newAuditRepoFake() *auditRepoFake {
	return &auditRepoFake{}
}

func (f *auditRepoFake) Append(_ context.Context, entry *model.AuditLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *auditRepoFake) QueryByEntity(_ context.Context, orgId, entityId string, _, _ int) ([]model.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AuditLogEntry
	for _, e := range f.entries {
		if e.OrgId == orgId && e.EntityId == entityId {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *auditRepoFake) CountByEntity(_ context.Context, orgId, entityId string) (int64, error) {
	entries, _ := f.QueryByEntity(context.Background(), orgId, entityId, 1, 500)
	return int64(len(entries)), nil
}

func (f *auditRepoFake) countByAction(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

// 常用夹具

func draftLead(leadId, orgId string) *model.Lead {
	return &model.Lead{
		LeadId:            leadId,
		OrgId:             orgId,
		Title:             "gearbox housing",
		CustomerName:      "acme",
		WorkflowStage:     statemachine.LeadDraft,
		Status:            statemachine.LeadStatusOpen,
		FeasibilityStatus: model.FeasibilityUnchecked,
		ApprovalRecords:   []model.ApprovalRecord{},
		Version:           0,
	}
}

func grantAll(permRepo *permRepoFake, roleId string) {
	for _, s := range model.RegisteredSubmodules() {
		_ = permRepo.UpsertGrant(context.Background(), &model.RolePermission{
			RoleId:      roleId,
			SubmoduleId: s.SubmoduleId,
			Granted:     true,
		})
	}
}
