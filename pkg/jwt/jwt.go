package jwt

import (
	"errors"
	"fmt"
	"time"

	"civic-go-admin/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// JWT错误定义
var (
	ErrTokenExpired   = errors.New("token已过期")
	ErrTokenMalformed = errors.New("token格式错误")
	ErrTokenInvalid   = errors.New("token无效")
)

// CustomClaims JWT载荷
type CustomClaims struct {
	UID  int `json:"uid"`
	RID  int `json:"rid"`
	TYPE int `json:"type"`
	jwt.RegisteredClaims
}

// TokenType 令牌类型
type TokenType string

const (
	TokenTypeAdmin TokenType = "admin"
	TokenTypeApp   TokenType = "app"
)

// JWTManager JWT管理器
type JWTManager struct {
	signingKey []byte
	tokenType  TokenType
}

// NewJWTManager 创建JWT管理器
func NewJWTManager(tokenType TokenType) *JWTManager {
	cfg := config.GetConfig()
	return &JWTManager{
		signingKey: []byte(cfg.JWT.SigningKey),
		tokenType:  tokenType,
	}
}

// GenerateToken 生成token
func (j *JWTManager) GenerateToken(uid, rid, userType int, duration ...time.Duration) (string, error) {
	expiry := config.GetConfig().JWT.Expiry
	if len(duration) > 0 {
		expiry = duration[0]
	}

	claims := CustomClaims{
		UID:  uid,
		RID:  rid,
		TYPE: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    fmt.Sprintf("%s-%s", config.GetConfig().JWT.Issuer, j.tokenType),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// ParseToken 解析token
func (j *JWTManager) ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return j.signingKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseAdminToken 解析管理端token
func ParseAdminToken(tokenString string) (*CustomClaims, error) {
	return NewJWTManager(TokenTypeAdmin).ParseToken(tokenString)
}

// ParseAppToken 解析App端token
func ParseAppToken(tokenString string) (*CustomClaims, error) {
	return NewJWTManager(TokenTypeApp).ParseToken(tokenString)
}
