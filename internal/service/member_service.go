package service

import (
	"context"

	"github.com/averarp/community-backend/internal/discord"
	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/pkg/apperror"
)

// MemberDirectory — чтение участников гильдии.
type MemberDirectory interface {
	Configured() bool
	ListMembers(ctx context.Context, guildID, after string) ([]discord.Member, error)
	ListAllMembers(ctx context.Context, guildID string) ([]discord.Member, error)
}

// TrustReader читает trust-записи (и создаёт дефолтные для новых).
type TrustReader interface {
	GetOrCreate(userID string) (models.TrustRecord, error)
}

// MemberService собирает списки пользователей: участники гильдии,
// объединённые с локальными trust-данными.
type MemberService struct {
	directory MemberDirectory
	trust     TrustReader
	guildID   string
}

// NewMemberService создаёт сервис.
func NewMemberService(directory MemberDirectory, trust TrustReader, guildID string) *MemberService {
	return &MemberService{
		directory: directory,
		trust:     trust,
		guildID:   guildID,
	}
}

func (s *MemberService) checkConfigured() error {
	if s.guildID == "" || s.directory == nil || !s.directory.Configured() {
		return apperror.New(apperror.ErrCodeInternal, "Discord бот не сконфигурирован")
	}
	return nil
}

// Overview возвращает всех участников гильдии с их trust-данными.
// Текущий администратор попадает в список, даже если бот его в гильдии
// не видит: иначе админка не показала бы его собственную карточку.
func (s *MemberService) Overview(ctx context.Context, current *Session) ([]models.MemberOverview, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	members, err := s.directory.ListAllMembers(ctx, s.guildID)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("members")

	seen := make(map[string]bool, len(members))
	users := make([]models.MemberOverview, 0, len(members)+1)
	for _, m := range members {
		if m.User.ID == "" {
			continue
		}

		rec, err := s.trust.GetOrCreate(m.User.ID)
		if err != nil {
			log.Warnf("не удалось прочитать trust-данные пользователя %s: %v", m.User.ID, err)
			rec = models.NewTrustRecord()
		}

		roles := m.Roles
		if roles == nil {
			roles = []string{}
		}
		users = append(users, models.MemberOverview{
			ID:         m.User.ID,
			DiscordID:  m.User.ID,
			Name:       m.User.DisplayName(),
			Avatar:     models.AvatarURL(m.User.ID, m.User.Avatar),
			TrustScore: rec.TrustScore,
			Warnings:   rec.Warnings,
			Roles:      roles,
		})
		seen[m.User.ID] = true
	}

	if current != nil && current.UserID != "" && !seen[current.UserID] {
		rec, err := s.trust.GetOrCreate(current.UserID)
		if err != nil {
			rec = models.NewTrustRecord()
		}

		avatar := current.Avatar
		if avatar == "" {
			avatar = models.DefaultAvatarURL(current.UserID)
		}
		name := current.Name
		if name == "" {
			name = "User " + current.UserID
		}
		roles := current.Roles
		if roles == nil {
			roles = []string{}
		}
		users = append(users, models.MemberOverview{
			ID:         current.UserID,
			DiscordID:  current.UserID,
			Name:       name,
			Avatar:     avatar,
			TrustScore: rec.TrustScore,
			Warnings:   rec.Warnings,
			Roles:      roles,
		})
	}

	return users, nil
}

// DirectoryUsers возвращает «лёгкий» список участников (одна страница,
// без trust-данных) для выпадающих списков админки.
func (s *MemberService) DirectoryUsers(ctx context.Context) ([]models.GuildUser, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}

	members, err := s.directory.ListMembers(ctx, s.guildID, "")
	if err != nil {
		return nil, err
	}

	users := make([]models.GuildUser, 0, len(members))
	for _, m := range members {
		if m.User.ID == "" {
			continue
		}

		var avatar *string
		if m.User.Avatar != nil && *m.User.Avatar != "" {
			u := models.AvatarURL(m.User.ID, m.User.Avatar)
			avatar = &u
		}
		users = append(users, models.GuildUser{
			ID:        m.User.ID,
			DiscordID: m.User.ID,
			Name:      m.User.DisplayName(),
			Avatar:    avatar,
		})
	}
	return users, nil
}
