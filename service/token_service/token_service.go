package token_service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 令牌负载：用户ID + 注册声明（过期时间等）
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

var (
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
)

var ErrInvalidToken = errors.New("invalid token")

// Init 配置签名密钥与有效期。密钥缺失是启动致命错误，不是请求级错误。
func Init(access, refresh, accessTTLStr, refreshTTLStr string) {
	if access == "" || refresh == "" {
		panic(fmt.Errorf("token_service init error: jwt secrets are required"))
	}
	at, err := time.ParseDuration(accessTTLStr)
	if err != nil || at <= 0 {
		panic(fmt.Errorf("token_service init error: bad access ttl %q", accessTTLStr))
	}
	rt, err := time.ParseDuration(refreshTTLStr)
	if err != nil || rt <= 0 {
		panic(fmt.Errorf("token_service init error: bad refresh ttl %q", refreshTTLStr))
	}
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
	accessTTL = at
	refreshTTL = rt
}

// IssueAccessToken 签发短期访问令牌（分钟级）
func IssueAccessToken(userID string) (string, error) {
	return issue(userID, accessSecret, accessTTL)
}

// IssueRefreshToken 签发长期刷新令牌（天级）
func IssueRefreshToken(userID string) (string, error) {
	return issue(userID, refreshSecret, refreshTTL)
}

func issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccessToken 校验访问令牌并返回用户ID
func ParseAccessToken(token string) (string, error) {
	return parse(token, accessSecret)
}

// ParseRefreshToken 校验刷新令牌并返回用户ID
func ParseRefreshToken(token string) (string, error) {
	return parse(token, refreshSecret)
}

func parse(token string, secret []byte) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// ParseIgnoringExpiry 只验签不验过期，登出时用来从过期访问令牌里读回用户ID
func ParseIgnoringExpiry(token string) (string, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return accessSecret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
