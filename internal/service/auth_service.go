package service

import (
	"context"
	"net/url"
	"time"

	"github.com/averarp/community-backend/internal/config"
	"github.com/averarp/community-backend/internal/discord"
	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/pkg/apperror"
)

// rolesTimeout — сколько ждём роли пользователя при логине. Недоступная
// гильдия не должна блокировать вход: роли деградируют до пустых.
const rolesTimeout = 5 * time.Second

// OAuthProvider — операции Discord OAuth, нужные для логина.
type OAuthProvider interface {
	ExchangeCode(ctx context.Context, clientID, clientSecret, redirectURI, code string) (*discord.TokenResponse, error)
	GetCurrentUser(ctx context.Context, accessToken string) (*discord.User, error)
	FetchUserRoles(ctx context.Context, guildID, userID string) ([]string, error)
}

// LoginResult — итог успешного входа.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Session   Session
}

// AuthService проводит вход через Discord OAuth и выпускает токен сессии.
type AuthService struct {
	provider OAuthProvider
	tokens   *TokenManager
	cfg      *config.Config
}

// NewAuthService создаёт сервис авторизации.
func NewAuthService(provider OAuthProvider, tokens *TokenManager, cfg *config.Config) *AuthService {
	return &AuthService{provider: provider, tokens: tokens, cfg: cfg}
}

// LoginURL возвращает адрес страницы авторизации Discord.
func (s *AuthService) LoginURL() string {
	q := url.Values{}
	q.Set("client_id", s.cfg.DiscordClientID)
	q.Set("redirect_uri", s.cfg.DiscordRedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "identify")
	return "https://discord.com/oauth2/authorize?" + q.Encode()
}

// ExchangeCode меняет authorization code на сессию: обмен кода, профиль,
// роли в гильдии, признак администратора, JWT.
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (*LoginResult, error) {
	if code == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "код авторизации обязателен")
	}

	token, err := s.provider.ExchangeCode(ctx,
		s.cfg.DiscordClientID, s.cfg.DiscordClientSecret, s.cfg.DiscordRedirectURI, code)
	if err != nil {
		return nil, err
	}

	user, err := s.provider.GetCurrentUser(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	roles := s.fetchRoles(ctx, user.ID)

	session := Session{
		UserID: user.ID,
		Name:   user.DisplayName(),
		Roles:  roles,
		Admin:  s.isAdmin(roles),
	}
	if user.Avatar != nil {
		session.Avatar = *user.Avatar
	}

	signed, exp, err := s.tokens.Issue(session)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен сессии")
	}

	return &LoginResult{Token: signed, ExpiresAt: exp, Session: session}, nil
}

// fetchRoles читает роли пользователя в гильдии с таймаутом. Любая
// проблема означает вход без ролей, не отказ во входе.
func (s *AuthService) fetchRoles(ctx context.Context, userID string) []string {
	if s.cfg.DiscordGuildID == "" {
		return []string{}
	}

	rolesCtx, cancel := context.WithTimeout(ctx, rolesTimeout)
	defer cancel()

	roles, err := s.provider.FetchUserRoles(rolesCtx, s.cfg.DiscordGuildID, userID)
	if err != nil {
		logger.WithComponent("auth").Warnf("не удалось получить роли пользователя %s: %v", userID, err)
		return []string{}
	}
	if roles == nil {
		roles = []string{}
	}
	return roles
}

// isAdmin сообщает, есть ли у пользователя хотя бы одна админская роль.
func (s *AuthService) isAdmin(roles []string) bool {
	for _, role := range roles {
		for _, adminRole := range s.cfg.AdminRoleIDs {
			if role == adminRole {
				return true
			}
		}
	}
	return false
}
