package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/pkg/apperror"
	"github.com/averarp/community-backend/internal/validation"
)

// GuildClient — операции над участниками гильдии, нужные модерации.
type GuildClient interface {
	Configured() bool
	StripRoles(ctx context.Context, guildID, userID string) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// TrustSetter выставляет trust score (обнуление при бане).
type TrustSetter interface {
	SetScore(userID string, value int, actor string) (models.TrustRecord, error)
}

// ModerationService банит и разбанивает пользователей через роли Discord.
// Сам факт бана — это состояние ролей в гильдии, локально он не хранится.
type ModerationService struct {
	guild           GuildClient
	trust           TrustSetter
	audit           AuditLog
	guildID         string
	banRoleID       string
	whitelistRoleID string
}

// NewModerationService создаёт сервис модерации.
func NewModerationService(guild GuildClient, trust TrustSetter, audit AuditLog, guildID, banRoleID, whitelistRoleID string) *ModerationService {
	return &ModerationService{
		guild:           guild,
		trust:           trust,
		audit:           audit,
		guildID:         guildID,
		banRoleID:       banRoleID,
		whitelistRoleID: whitelistRoleID,
	}
}

func (s *ModerationService) checkConfigured() error {
	if s.guildID == "" {
		return apperror.New(apperror.ErrCodeInternal, "Discord Guild ID не сконфигурирован")
	}
	if s.guild == nil || !s.guild.Configured() {
		return apperror.New(apperror.ErrCodeExternal, "Discord бот не сконфигурирован")
	}
	return nil
}

// Ban снимает с пользователя все роли и выдаёт ban-роль. Порядок строгий:
// сначала снятие ролей, потом ban-роль; сбой любого из шагов прерывает
// операцию. Обнуление trust score и DM ошибку операции не вызывают.
func (s *ModerationService) Ban(ctx context.Context, userID, reason, actor string) (bool, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateReason("причина бана", reason); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := s.checkConfigured(); err != nil {
		return false, err
	}
	if s.banRoleID == "" {
		return false, apperror.New(apperror.ErrCodeInternal, "ban-роль не сконфигурирована")
	}

	reason = strings.TrimSpace(reason)
	log := logger.WithComponent("moderation")

	if err := s.guild.StripRoles(ctx, s.guildID, userID); err != nil {
		return false, err
	}
	if err := s.guild.AddRole(ctx, s.guildID, userID, s.banRoleID); err != nil {
		return false, err
	}

	// Бан применён; всё дальше best-effort.
	if s.trust != nil {
		if _, err := s.trust.SetScore(userID, 0, actor); err != nil {
			log.Warnf("не удалось обнулить trust score пользователя %s: %v", userID, err)
		}
	}

	dm := fmt.Sprintf("**Du er blevet banned fra serveren**\n\n"+
		"**Grund:** %s\n\n"+
		"Alle dine ranks er blevet fjernet og du har modtaget ban ranken.\n\n"+
		"Hvis du mener dette er en fejl, kan du kontakte administrationen.", reason)

	dmSent := true
	if err := s.guild.SendDirectMessage(ctx, userID, dm); err != nil {
		dmSent = false
		log.Warnf("не удалось отправить DM забаненному %s: %v", userID, err)
	}

	s.audit.Append(models.ActionUserBanned, userID, actor,
		fmt.Sprintf("Bruger banned af %s. Grund: %s", actor, reason))

	return dmSent, nil
}

// Unban снимает ban-роль. Возврат whitelist-роли и DM best-effort;
// trust score при разбане не восстанавливается.
func (s *ModerationService) Unban(ctx context.Context, userID, reason string, restoreWhitelist bool, actor string) (bool, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateReason("причина разбана", reason); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := s.checkConfigured(); err != nil {
		return false, err
	}
	if s.banRoleID == "" {
		return false, apperror.New(apperror.ErrCodeInternal, "ban-роль не сконфигурирована")
	}

	reason = strings.TrimSpace(reason)
	log := logger.WithComponent("moderation")

	if err := s.guild.RemoveRole(ctx, s.guildID, userID, s.banRoleID); err != nil {
		return false, err
	}

	whitelistRestored := false
	if restoreWhitelist && s.whitelistRoleID != "" {
		if err := s.guild.AddRole(ctx, s.guildID, userID, s.whitelistRoleID); err != nil {
			log.Warnf("не удалось вернуть whitelist-роль пользователю %s: %v", userID, err)
		} else {
			whitelistRestored = true
		}
	}

	dm := fmt.Sprintf("✅ **Du er blevet unbanned fra serveren**\n\n**Grund:** %s\n\n", reason)
	if whitelistRestored {
		dm += "Whitelist-rollen er blevet givet tilbage.\n\n"
	}
	dm += "Velkommen tilbage!"

	if err := s.guild.SendDirectMessage(ctx, userID, dm); err != nil {
		log.Warnf("не удалось отправить DM разбаненному %s: %v", userID, err)
	}

	s.audit.Append(models.ActionUserUnbanned, userID, actor,
		fmt.Sprintf("Bruger unbanned af %s. Grund: %s. Whitelist gendannet: %t", actor, reason, whitelistRestored))

	return whitelistRestored, nil
}
