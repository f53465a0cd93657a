package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/pkg/apperror"
)

type fakeGuild struct {
	configured bool
	failStrip  bool
	failAdd    bool
	failRemove bool
	failDM     bool

	calls []string
	dms   []string
	roles []string
}

func (g *fakeGuild) Configured() bool { return g.configured }

func (g *fakeGuild) StripRoles(ctx context.Context, guildID, userID string) error {
	g.calls = append(g.calls, "strip")
	if g.failStrip {
		return apperror.New(apperror.ErrCodeExternal, "Discord API недоступен")
	}
	return nil
}

func (g *fakeGuild) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	g.calls = append(g.calls, "add:"+roleID)
	if g.failAdd {
		return apperror.New(apperror.ErrCodeExternal, "Discord API недоступен")
	}
	g.roles = append(g.roles, roleID)
	return nil
}

func (g *fakeGuild) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	g.calls = append(g.calls, "remove:"+roleID)
	if g.failRemove {
		return apperror.New(apperror.ErrCodeExternal, "Discord API недоступен")
	}
	return nil
}

func (g *fakeGuild) SendDirectMessage(ctx context.Context, userID, content string) error {
	g.calls = append(g.calls, "dm")
	if g.failDM {
		return errors.New("DM закрыт")
	}
	g.dms = append(g.dms, content)
	return nil
}

type fakeTrustSetter struct {
	failSet bool
	set     []int
}

func (s *fakeTrustSetter) SetScore(userID string, value int, actor string) (models.TrustRecord, error) {
	if s.failSet {
		return models.TrustRecord{}, errors.New("диск переполнен")
	}
	s.set = append(s.set, value)
	return models.TrustRecord{TrustScore: value}, nil
}

func newModerationFixture() (*ModerationService, *fakeGuild, *fakeTrustSetter, *auditRecorder) {
	guild := &fakeGuild{configured: true}
	trust := &fakeTrustSetter{}
	audit := &auditRecorder{}
	svc := NewModerationService(guild, trust, audit, "guild1", "banRole", "wlRole")
	return svc, guild, trust, audit
}

func TestModerationService_Ban(t *testing.T) {
	svc, guild, trust, audit := newModerationFixture()

	dmSent, err := svc.Ban(context.Background(), "111111111111111111", "Cheat", "Admin")
	assert.NoError(t, err)
	assert.True(t, dmSent)

	// Порядок строгий: снять роли, выдать ban-роль, потом DM.
	assert.Equal(t, []string{"strip", "add:banRole", "dm"}, guild.calls)
	assert.Equal(t, []int{0}, trust.set)
	assert.Contains(t, guild.dms[0], "**Du er blevet banned fra serveren**")
	assert.Contains(t, guild.dms[0], "**Grund:** Cheat")

	assert.Equal(t, models.ActionUserBanned, audit.last().Action)
	assert.Equal(t, "111111111111111111", audit.last().UserID)
}

func TestModerationService_Ban_EmptyReason(t *testing.T) {
	svc, guild, _, audit := newModerationFixture()

	_, err := svc.Ban(context.Background(), "111111111111111111", "   ", "Admin")
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, guild.calls)
	assert.Empty(t, audit.entries)
}

func TestModerationService_Ban_StripFailureAborts(t *testing.T) {
	svc, guild, trust, audit := newModerationFixture()
	guild.failStrip = true

	_, err := svc.Ban(context.Background(), "111111111111111111", "Cheat", "Admin")
	assert.True(t, apperror.IsExternal(err))
	assert.Equal(t, []string{"strip"}, guild.calls)
	assert.Empty(t, trust.set)
	assert.Empty(t, audit.entries)
}

func TestModerationService_Ban_AddRoleFailureAborts(t *testing.T) {
	svc, guild, _, audit := newModerationFixture()
	guild.failAdd = true

	_, err := svc.Ban(context.Background(), "111111111111111111", "Cheat", "Admin")
	assert.True(t, apperror.IsExternal(err))
	assert.Equal(t, []string{"strip", "add:banRole"}, guild.calls)
	assert.Empty(t, audit.entries)
}

func TestModerationService_Ban_DMFailureIsNotFatal(t *testing.T) {
	svc, guild, _, audit := newModerationFixture()
	guild.failDM = true

	dmSent, err := svc.Ban(context.Background(), "111111111111111111", "Cheat", "Admin")
	assert.NoError(t, err)
	assert.False(t, dmSent)
	assert.Equal(t, models.ActionUserBanned, audit.last().Action)
}

func TestModerationService_Ban_TrustFailureIsNotFatal(t *testing.T) {
	svc, _, trust, _ := newModerationFixture()
	trust.failSet = true

	dmSent, err := svc.Ban(context.Background(), "111111111111111111", "Cheat", "Admin")
	assert.NoError(t, err)
	assert.True(t, dmSent)
}

func TestModerationService_Ban_NotConfigured(t *testing.T) {
	guild := &fakeGuild{configured: false}
	svc := NewModerationService(guild, &fakeTrustSetter{}, &auditRecorder{}, "guild1", "banRole", "wlRole")

	_, err := svc.Ban(context.Background(), "111111111111111111", "Cheat", "Admin")
	assert.Error(t, err)
	assert.Empty(t, guild.calls)
}

func TestModerationService_Unban(t *testing.T) {
	svc, guild, _, audit := newModerationFixture()

	restored, err := svc.Unban(context.Background(), "111111111111111111", "Appel godkendt", true, "Admin")
	assert.NoError(t, err)
	assert.True(t, restored)

	assert.Equal(t, []string{"remove:banRole", "add:wlRole", "dm"}, guild.calls)
	assert.Contains(t, guild.dms[0], "unbanned fra serveren")
	assert.Contains(t, guild.dms[0], "Whitelist-rollen er blevet givet tilbage.")
	assert.Contains(t, guild.dms[0], "Velkommen tilbage!")

	assert.Equal(t, models.ActionUserUnbanned, audit.last().Action)
}

func TestModerationService_Unban_WithoutWhitelist(t *testing.T) {
	svc, guild, _, _ := newModerationFixture()

	restored, err := svc.Unban(context.Background(), "111111111111111111", "Appel godkendt", false, "Admin")
	assert.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, []string{"remove:banRole", "dm"}, guild.calls)
	assert.NotContains(t, guild.dms[0], "Whitelist-rollen")
}

func TestModerationService_Unban_RemoveFailureAborts(t *testing.T) {
	svc, guild, _, audit := newModerationFixture()
	guild.failRemove = true

	_, err := svc.Unban(context.Background(), "111111111111111111", "Appel godkendt", true, "Admin")
	assert.True(t, apperror.IsExternal(err))
	assert.Equal(t, []string{"remove:banRole"}, guild.calls)
	assert.Empty(t, audit.entries)
}

func TestModerationService_Unban_WhitelistFailureIsNotFatal(t *testing.T) {
	svc, guild, _, audit := newModerationFixture()
	guild.failAdd = true

	restored, err := svc.Unban(context.Background(), "111111111111111111", "Appel godkendt", true, "Admin")
	assert.NoError(t, err)
	assert.False(t, restored)
	assert.NotContains(t, guild.dms[0], "Whitelist-rollen")
	assert.Equal(t, models.ActionUserUnbanned, audit.last().Action)
}
