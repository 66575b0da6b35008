package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/observabil/foundry/pkg/http"
	"github.com/observabil/foundry/pkg/log"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/16 22:40
 * @file: jwt.go
 * @description: session token service
 */

// AuthClaims 会话凭证载荷：用户、组织、角色与过期时间。
// orgId/roleId 只能来自已验证的令牌，绝不信任请求参数。
type AuthClaims struct {
	UserId string `json:"userId"`
	OrgId  string `json:"orgId"`
	RoleId string `json:"roleId"`
	jwt.RegisteredClaims
}

var (
	issuer = "foundry"

	// ErrTokenInvalid 签名不匹配或载荷损坏
	ErrTokenInvalid = errors.New("invalid token")
)

// GenToken 生成 access_token 和 refresh_token
func GenToken(userId, orgId, roleId string, secretKey []byte, accessExpired, refreshExpired time.Duration) (aToken, rToken string, err error) {

	now := time.Now()

	// aToken
	aClaims := &AuthClaims{
		UserId: userId,
		OrgId:  orgId,
		RoleId: roleId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer, // 签发人
			ExpiresAt: jwt.NewNumericDate(now.Add(accessExpired)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	aToken, aErr := jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if aErr != nil {
		log.Errorf("jwt.NewWithClaims err: %v", aErr)
		return "", "", aErr
	}

	// rToken
	rClaims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userId,
		ExpiresAt: jwt.NewNumericDate(now.Add(refreshExpired)),
	}
	rToken, rErr := jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if rErr != nil {
		log.Debugf("jwt.NewWithClaims err: %v", rErr)
		return "", "", rErr
	}

	return aToken, rToken, nil
}

// ParseToken 校验 access_token。
// 过期返回 jwt.ErrTokenExpired（调用方可 errors.Is 判断），
// 签名或载荷非法返回 ErrTokenInvalid。
func ParseToken(aToken, secretKey string) (claims *AuthClaims, err error) {
	token, err := jwt.ParseWithClaims(aToken, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, err
		}
		return nil, ErrTokenInvalid
	}
	if authClaims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return authClaims, nil
	}
	return nil, ErrTokenInvalid
}

// RefreshToken 刷新 access_token
func RefreshToken(auth *http.Auth, userId, orgId, roleId, rToken string) (map[string]string, error) {
	newToken := make(map[string]string)

	// 解析刷新令牌
	var refreshClaims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(rToken, &refreshClaims, func(token *jwt.Token) (interface{}, error) {
		return []byte(auth.SecretKey), nil
	})
	if err != nil {
		log.Errorf("jwt.ParseWithClaims err: %v", err)
		return newToken, errors.New(http.InValidRefreshToken.Msg)
	}

	// 检查刷新令牌是否有效且未过期
	if refreshClaims.ExpiresAt == nil || time.Now().After(refreshClaims.ExpiresAt.Time) {
		return newToken, errors.New(http.InValidRefreshToken.Msg)
	}

	newAToken, newRToken, err := GenToken(userId, orgId, roleId, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		return newToken, err
	}

	newToken["accessToken"] = newAToken
	newToken["refreshToken"] = newRToken

	return newToken, nil
}
