package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/observabil/foundry/internal/engine/core"
	"github.com/observabil/foundry/internal/engine/model"
	"github.com/observabil/foundry/internal/engine/repo"
	"github.com/observabil/foundry/pkg/ctx"
	"github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/http/auth/jwt"
	"github.com/observabil/foundry/pkg/log"
	"github.com/observabil/foundry/pkg/metrics"
	goJwt "github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/22 11:20
 * @file: service_auth.go
 * @description: 认证与授权门面。登录签发组织作用域令牌，
 *               Authorize 把 令牌→成员关系→授权判定 压成单次调用，产出请求上下文。
 */

// OrgContext 一次已通过授权的请求上下文。
// 三个字段全部来自已验证令牌与成员关系行，绝不来自请求参数。
type OrgContext struct {
	UserId string
	OrgId  string
	RoleId string
}

// session 会话在 Redis 中的值
type session struct {
	OrgId       string `json:"orgId"`
	RoleId      string `json:"roleId"`
	AccessToken string `json:"accessToken"`
}

// LoginResp 登录响应
type LoginResp struct {
	UserId   string            `json:"userId"`
	Username string            `json:"username"`
	OrgId    string            `json:"orgId"`
	RoleId   string            `json:"roleId"`
	Token    map[string]string `json:"token"`
	ExpireAt int64             `json:"expireAt"`
}

type AuthService struct {
	ctx            *ctx.Context
	userRepo       repo.IUserRepository
	orgRepo        repo.IOrganizationRepository
	membershipRepo repo.IMembershipRepository
	permService    *PermissionService
	auditService   *AuditService
}

func NewAuthService(
	appCtx *ctx.Context,
	userRepo repo.IUserRepository,
	orgRepo repo.IOrganizationRepository,
	membershipRepo repo.IMembershipRepository,
	permService *PermissionService,
	auditService *AuditService,
) *AuthService {
	return &AuthService{
		ctx:            appCtx,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		permService:    permService,
		auditService:   auditService,
	}
}

// Login 校验凭据与目标组织的成员关系，签发组织作用域令牌。
// 没有有效成员关系时即便密码正确也拒绝登录。
func (as *AuthService) Login(c context.Context, login *model.LoginReq, auth http.Auth) (*LoginResp, error) {
	userInfo, err := as.userRepo.GetByUsername(c, login.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(http.UserNotExist.Msg)
		}
		log.Errorf("login: query user failed: %v", err)
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(userInfo.Password), []byte(login.Password)) != nil {
		log.Warnf("login: incorrect password for user %s", login.Username)
		return nil, errors.New(http.UserIncorrectPassword.Msg)
	}

	if _, err = as.orgRepo.GetOrganization(c, login.OrgId); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrMembershipNotFound
		}
		return nil, err
	}

	member, err := as.membershipRepo.GetActiveMembership(c, userInfo.UserId, login.OrgId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warnf("login: user %s has no active membership in org %s", userInfo.UserId, login.OrgId)
			return nil, core.ErrMembershipNotFound
		}
		return nil, err
	}

	aToken, rToken, err := jwt.GenToken(userInfo.UserId, member.OrgId, member.RoleId,
		[]byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		log.Errorf("login: generate tokens for user %s failed: %v", userInfo.UserId, err)
		return nil, err
	}

	now := time.Now()
	expireAt := now.Add(auth.AccessExpire).Unix()

	if err = as.setSession(c, auth, userInfo.UserId, member.OrgId, member.RoleId, aToken); err != nil {
		log.Errorf("login: set session for user %s failed: %v", userInfo.UserId, err)
		return nil, err
	}

	return &LoginResp{
		UserId:   userInfo.UserId,
		Username: userInfo.Username,
		OrgId:    member.OrgId,
		RoleId:   member.RoleId,
		Token: map[string]string{
			"accessToken":  aToken,
			"refreshToken": rToken,
			"expireAt":     fmt.Sprintf("%d", expireAt),
			"createAt":     fmt.Sprintf("%d", now.Unix()),
		},
		ExpireAt: expireAt,
	}, nil
}

// Refresh 用刷新令牌换取新令牌对。会话已不存在时拒绝。
func (as *AuthService) Refresh(c context.Context, rToken string, auth *http.Auth) (map[string]string, error) {
	var refreshClaims goJwt.RegisteredClaims
	_, err := goJwt.ParseWithClaims(rToken, &refreshClaims, func(token *goJwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*goJwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenInvalid
		}
		return []byte(auth.SecretKey), nil
	})
	if err != nil {
		return nil, errors.New(http.InValidRefreshToken.Msg)
	}

	userId := refreshClaims.Subject
	sess, err := as.getSession(c, auth, userId)
	if err != nil {
		log.Warnf("refresh: no session for user %s", userId)
		return nil, errors.New(http.InValidRefreshToken.Msg)
	}

	// 成员关系可能在会话期间被禁用，刷新时重新校验
	member, err := as.membershipRepo.GetActiveMembership(c, userId, sess.OrgId)
	if err != nil {
		return nil, core.ErrMembershipNotFound
	}

	token, err := jwt.RefreshToken(auth, userId, member.OrgId, member.RoleId, rToken)
	if err != nil {
		return nil, err
	}

	expireAt := time.Now().Add(auth.AccessExpire).Unix()
	token["expireAt"] = fmt.Sprintf("%d", expireAt)

	if err = as.setSession(c, *auth, userId, member.OrgId, member.RoleId, token["accessToken"]); err != nil {
		log.Errorf("refresh: set session for user %s failed: %v", userId, err)
		return token, err
	}

	return token, nil
}

// Logout 删除会话，令牌立即失效
func (as *AuthService) Logout(c context.Context, auth *http.Auth, userId string) error {
	return as.ctx.Cache.Del(c, auth.RedisKeyPrefix+userId).Err()
}

// Authorize 授权门面：成员关系校验 + 权限解析，产出请求上下文。
// 角色以成员关系行为准而非令牌载荷，授权变更无需等令牌过期。
func (as *AuthService) Authorize(c context.Context, claims *jwt.AuthClaims, submoduleId string) (*OrgContext, error) {
	member, err := as.membershipRepo.GetActiveMembership(c, claims.UserId, claims.OrgId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			metrics.AuthDecisions.WithLabelValues("denied", submoduleId).Inc()
			return nil, core.ErrMembershipNotFound
		}
		return nil, err
	}

	allowed, err := as.permService.Resolve(c, member.RoleId, submoduleId)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.AuthDecisions.WithLabelValues("denied", submoduleId).Inc()
		as.auditService.AccessDenied(c, claims.OrgId, claims.UserId, submoduleId)
		return nil, core.ErrPermissionDenied
	}

	metrics.AuthDecisions.WithLabelValues("allowed", submoduleId).Inc()
	return &OrgContext{
		UserId: claims.UserId,
		OrgId:  claims.OrgId,
		RoleId: member.RoleId,
	}, nil
}

func (as *AuthService) setSession(c context.Context, auth http.Auth, userId, orgId, roleId, aToken string) error {
	val, err := json.Marshal(session{OrgId: orgId, RoleId: roleId, AccessToken: aToken})
	if err != nil {
		return err
	}
	// 会话按刷新令牌有效期保存，访问令牌的时效由其自身 exp 约束
	return as.ctx.Cache.Set(c, auth.RedisKeyPrefix+userId, val, auth.RefreshExpire).Err()
}

func (as *AuthService) getSession(c context.Context, auth *http.Auth, userId string) (*session, error) {
	val, err := as.ctx.Cache.Get(c, auth.RedisKeyPrefix+userId).Result()
	if err != nil {
		return nil, err
	}
	var sess session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}
