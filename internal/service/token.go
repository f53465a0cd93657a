package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/averarp/community-backend/internal/pkg/apperror"
)

// Session — данные авторизованного пользователя, зашитые в токен сессии.
type Session struct {
	UserID string
	Name   string
	Avatar string
	Roles  []string
	Admin  bool
}

// TokenManager выпускает и проверяет JWT сессий. Логин делегирован Discord
// OAuth, поэтому токен единственный: без пары access/refresh.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue выпускает токен сессии.
func (m *TokenManager) Issue(s Session) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)

	claims := jwt.MapClaims{
		"sub":    s.UserID,
		"name":   s.Name,
		"avatar": s.Avatar,
		"roles":  s.Roles,
		"admin":  s.Admin,
		"iat":    now.Unix(),
		"exp":    exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse проверяет токен и возвращает сессию.
func (m *TokenManager) Parse(raw string) (*Session, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден")
	}

	session := &Session{UserID: sub}
	session.Name, _ = claims["name"].(string)
	session.Avatar, _ = claims["avatar"].(string)
	session.Admin, _ = claims["admin"].(bool)

	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		session.Roles = make([]string, 0, len(rawRoles))
		for _, r := range rawRoles {
			if role, ok := r.(string); ok {
				session.Roles = append(session.Roles, role)
			}
		}
	}

	return session, nil
}
