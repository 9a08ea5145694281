// Package auth 签发与校验玩家令牌。
// 游客也会拿到令牌：稳定的UserID是断线重连找回座位的关键。
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims 玩家令牌载荷
type Claims struct {
	UserID string `json:"userId"` // 稳定标识，跨连接不变
	Name   string `json:"name"`
	Guest  bool   `json:"guest"`
	jwt.RegisteredClaims
}

// Manager 令牌管理器
type Manager struct {
	secretKey string
	expiry    time.Duration
}

// NewManager 创建令牌管理器
func NewManager(secretKey string, expiry time.Duration) *Manager {
	return &Manager{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// IssueGuestToken 为游客签发令牌，生成新的稳定标识
func (m *Manager) IssueGuestToken(name string) (token string, userID string, err error) {
	userID = uuid.NewString()
	token, err = m.Generate(userID, name, true)
	return token, userID, err
}

// Generate 签发令牌
func (m *Manager) Generate(userID, name string, guest bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Name:   name,
		Guest:  guest,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "party-game",
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// Validate 校验令牌
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
