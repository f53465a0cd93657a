package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/pkg/apperror"
)

const (
	// Чтения короткие, мутации и отправка сообщений чуть терпеливее.
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second

	membersPageLimit = 1000
)

// User — учётная запись Discord.
type User struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	GlobalName *string `json:"global_name"`
	Avatar     *string `json:"avatar"`
}

// DisplayName возвращает имя для показа: global name, иначе username.
func (u *User) DisplayName() string {
	if u.GlobalName != nil && *u.GlobalName != "" {
		return *u.GlobalName
	}
	if u.Username != "" {
		return u.Username
	}
	return "User " + u.ID
}

// Member — участник гильдии с его ролями.
type Member struct {
	User  User     `json:"user"`
	Roles []string `json:"roles"`
}

// TokenResponse — ответ OAuth-обмена кода на токен.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Client — REST-клиент Discord API. Все вызовы ограничены таймаутом;
// в ошибках токен бота никогда не фигурирует.
type Client struct {
	baseURL     string
	botToken    string
	readClient  *http.Client
	writeClient *http.Client
}

// NewClient создаёт клиент. baseURL без завершающего слэша,
// например https://discord.com/api/v10.
func NewClient(baseURL, botToken string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		botToken:    botToken,
		readClient:  &http.Client{Timeout: readTimeout},
		writeClient: &http.Client{Timeout: writeTimeout},
	}
}

// Configured сообщает, задан ли токен бота.
func (c *Client) Configured() bool {
	return c.botToken != ""
}

// --- Участники и роли ---

// GetMember возвращает участника гильдии. Отсутствие участника — NOT_FOUND.
func (c *Client) GetMember(ctx context.Context, guildID, userID string) (*Member, error) {
	var member Member
	status, err := c.doJSON(ctx, c.readClient, http.MethodGet,
		fmt.Sprintf("/guilds/%s/members/%s", guildID, userID), nil, &member)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, apperror.New(apperror.ErrCodeNotFound, "пользователь не состоит в гильдии")
	}
	if status != http.StatusOK {
		return nil, externalError("получение участника", status)
	}
	return &member, nil
}

// FetchUserRoles возвращает роли пользователя в гильдии.
// Пользователь вне гильдии — пустой список, не ошибка.
func (c *Client) FetchUserRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	member, err := c.GetMember(ctx, guildID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return member.Roles, nil
}

// ListMembers возвращает одну страницу участников гильдии (до 1000).
func (c *Client) ListMembers(ctx context.Context, guildID, after string) ([]Member, error) {
	path := fmt.Sprintf("/guilds/%s/members?limit=%d", guildID, membersPageLimit)
	if after != "" {
		path += "&after=" + url.QueryEscape(after)
	}

	var members []Member
	status, err := c.doJSON(ctx, c.readClient, http.MethodGet, path, nil, &members)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, externalError("получение списка участников", status)
	}
	return members, nil
}

// ListAllMembers обходит все страницы списка участников.
func (c *Client) ListAllMembers(ctx context.Context, guildID string) ([]Member, error) {
	var all []Member
	after := ""
	for {
		page, err := c.ListMembers(ctx, guildID, after)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < membersPageLimit {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// StripRoles снимает с участника все роли (кроме @everyone).
// Если ролей и так нет, запрос к API не делается.
func (c *Client) StripRoles(ctx context.Context, guildID, userID string) error {
	member, err := c.GetMember(ctx, guildID, userID)
	if err != nil {
		return err
	}
	if len(member.Roles) == 0 {
		return nil
	}

	payload := map[string]any{"roles": []string{}}
	status, err := c.doJSON(ctx, c.writeClient, http.MethodPatch,
		fmt.Sprintf("/guilds/%s/members/%s", guildID, userID), payload, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return externalError("снятие ролей", status)
	}
	return nil
}

// AddRole выдаёт участнику роль.
func (c *Client) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	status, err := c.doJSON(ctx, c.writeClient, http.MethodPut,
		fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID), nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return externalError("выдача роли", status)
	}
	return nil
}

// RemoveRole снимает с участника роль. 404 означает, что роли и так нет —
// это не ошибка.
func (c *Client) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	status, err := c.doJSON(ctx, c.writeClient, http.MethodDelete,
		fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return nil
	}
	if status != http.StatusNoContent {
		return externalError("снятие роли", status)
	}
	return nil
}

// --- Сообщения ---

// SendChannelMessage отправляет сообщение в канал гильдии.
func (c *Client) SendChannelMessage(ctx context.Context, channelID, content string) error {
	payload := map[string]any{"content": content}
	status, err := c.doJSON(ctx, c.writeClient, http.MethodPost,
		fmt.Sprintf("/channels/%s/messages", channelID), payload, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return externalError("отправка сообщения в канал", status)
	}
	return nil
}

// SendDirectMessage открывает DM-канал с пользователем и отправляет сообщение.
func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) error {
	var channel struct {
		ID string `json:"id"`
	}
	payload := map[string]any{"recipient_id": userID}
	status, err := c.doJSON(ctx, c.writeClient, http.MethodPost, "/users/@me/channels", payload, &channel)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return externalError("создание DM-канала", status)
	}

	return c.SendChannelMessage(ctx, channel.ID, content)
}

// --- OAuth ---

// ExchangeCode меняет authorization code на access token пользователя.
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, redirectURI, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternal, "обмен OAuth кода не удался")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.writeClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternal, "обмен OAuth кода не удался")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.WithComponent("discord").Warnf("OAuth обмен вернул статус %d", resp.StatusCode)
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "код авторизации отклонён")
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternal, "обмен OAuth кода не удался")
	}
	return &token, nil
}

// GetCurrentUser возвращает профиль владельца пользовательского access token.
func (c *Client) GetCurrentUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/@me", nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternal, "получение профиля не удалось")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.readClient.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternal, "получение профиля не удалось")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, externalError("получение профиля", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternal, "получение профиля не удалось")
	}
	return &user, nil
}

// --- Внутреннее ---

// doJSON выполняет запрос от имени бота. Тело ответа декодируется в out,
// если out != nil и статус успешный либо это структура, которую ожидает
// вызывающий. Возвращается статус, чтобы вызывающий сам решил судьбу 4xx.
func (c *Client) doJSON(ctx context.Context, client *http.Client, method, path string, payload, out interface{}) (int, error) {
	if c.botToken == "" {
		return 0, apperror.New(apperror.ErrCodeExternal, "Discord бот не сконфигурирован")
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запрос")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeExternal, "запрос к Discord не удался")
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		// Сюда попадают и таймауты: наружу уходит только безопасное сообщение.
		logger.WithComponent("discord").Warnf("%s %s: %v", method, path, err)
		return 0, apperror.Wrap(err, apperror.ErrCodeExternal, "Discord API недоступен")
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, apperror.Wrap(err, apperror.ErrCodeExternal, "некорректный ответ Discord API")
		}
	} else {
		// Дочитываем тело, чтобы соединение вернулось в пул.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))
	}

	return resp.StatusCode, nil
}

// externalError формирует безопасную ошибку внешнего сервиса.
func externalError(operation string, status int) error {
	logger.WithComponent("discord").Errorf("%s: Discord API вернул статус %d", operation, status)
	return apperror.New(apperror.ErrCodeExternal,
		fmt.Sprintf("Discord API: %s не удалось (статус %d)", operation, status))
}
