package models

import "fmt"

// GuildUser — участник гильдии в «лёгком» представлении для списков.
type GuildUser struct {
	ID        string  `json:"id"`
	DiscordID string  `json:"discordId"`
	Name      string  `json:"name"`
	Avatar    *string `json:"avatar"`
}

// MemberOverview — участник гильдии, объединённый с локальными trust-данными.
type MemberOverview struct {
	ID         string    `json:"id"`
	DiscordID  string    `json:"discordId"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	TrustScore int       `json:"trustScore"`
	Warnings   []Warning `json:"warnings"`
	Roles      []string  `json:"roles"`
}

// DefaultAvatarURL возвращает стандартную аватарку Discord для пользователя
// без собственной (одна из пяти, выбирается по id).
func DefaultAvatarURL(userID string) string {
	var sum int
	for _, r := range userID {
		sum = (sum*10 + int(r-'0')) % 5
	}
	return fmt.Sprintf("https://cdn.discordapp.com/embed/avatars/%d.png", sum)
}

// AvatarURL строит URL аватарки участника.
func AvatarURL(userID string, avatarHash *string) string {
	if avatarHash != nil && *avatarHash != "" {
		return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png?size=256", userID, *avatarHash)
	}
	return DefaultAvatarURL(userID)
}
