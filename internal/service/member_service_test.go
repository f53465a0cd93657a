package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/averarp/community-backend/internal/discord"
	"github.com/averarp/community-backend/internal/models"
)

type fakeDirectory struct {
	configured bool
	failList   bool
	members    []discord.Member
}

func (d *fakeDirectory) Configured() bool { return d.configured }

func (d *fakeDirectory) ListMembers(ctx context.Context, guildID, after string) ([]discord.Member, error) {
	if d.failList {
		return nil, errors.New("Discord API недоступен")
	}
	return d.members, nil
}

func (d *fakeDirectory) ListAllMembers(ctx context.Context, guildID string) ([]discord.Member, error) {
	return d.ListMembers(ctx, guildID, "")
}

type fakeTrustReader struct {
	records map[string]models.TrustRecord
	fail    bool
}

func (r *fakeTrustReader) GetOrCreate(userID string) (models.TrustRecord, error) {
	if r.fail {
		return models.TrustRecord{}, errors.New("диск переполнен")
	}
	if rec, ok := r.records[userID]; ok {
		return rec, nil
	}
	return models.NewTrustRecord(), nil
}

func guildMember(id, username string, roles ...string) discord.Member {
	return discord.Member{
		User:  discord.User{ID: id, Username: username},
		Roles: roles,
	}
}

func TestMemberService_Overview(t *testing.T) {
	directory := &fakeDirectory{configured: true, members: []discord.Member{
		guildMember("111111111111111111", "jens", "role1"),
		guildMember("222222222222222222", "mette"),
	}}
	trust := &fakeTrustReader{records: map[string]models.TrustRecord{
		"111111111111111111": {TrustScore: 60, Warnings: []models.Warning{{ID: "w1"}}},
	}}
	svc := NewMemberService(directory, trust, "guild1")

	users, err := svc.Overview(context.Background(), nil)
	assert.NoError(t, err)
	assert.Len(t, users, 2)

	assert.Equal(t, "111111111111111111", users[0].ID)
	assert.Equal(t, 60, users[0].TrustScore)
	assert.Len(t, users[0].Warnings, 1)
	assert.Equal(t, []string{"role1"}, users[0].Roles)

	// Без записи в trust-данных — дефолтные 100 очков.
	assert.Equal(t, 100, users[1].TrustScore)
	assert.NotNil(t, users[1].Roles)
}

func TestMemberService_Overview_AppendsCurrentUser(t *testing.T) {
	directory := &fakeDirectory{configured: true, members: []discord.Member{
		guildMember("111111111111111111", "jens"),
	}}
	svc := NewMemberService(directory, &fakeTrustReader{}, "guild1")

	current := &Session{UserID: "999999999999999999", Name: "Admin", Admin: true}
	users, err := svc.Overview(context.Background(), current)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "999999999999999999", users[1].ID)
	assert.Equal(t, "Admin", users[1].Name)
}

func TestMemberService_Overview_CurrentUserAlreadyInGuild(t *testing.T) {
	directory := &fakeDirectory{configured: true, members: []discord.Member{
		guildMember("111111111111111111", "jens"),
	}}
	svc := NewMemberService(directory, &fakeTrustReader{}, "guild1")

	current := &Session{UserID: "111111111111111111", Name: "Jens"}
	users, err := svc.Overview(context.Background(), current)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestMemberService_Overview_TrustFailureDegrades(t *testing.T) {
	directory := &fakeDirectory{configured: true, members: []discord.Member{
		guildMember("111111111111111111", "jens"),
	}}
	svc := NewMemberService(directory, &fakeTrustReader{fail: true}, "guild1")

	users, err := svc.Overview(context.Background(), nil)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 100, users[0].TrustScore)
}

func TestMemberService_Overview_NotConfigured(t *testing.T) {
	svc := NewMemberService(&fakeDirectory{configured: false}, &fakeTrustReader{}, "guild1")

	_, err := svc.Overview(context.Background(), nil)
	assert.Error(t, err)
}

func TestMemberService_DirectoryUsers(t *testing.T) {
	avatar := "abc123"
	directory := &fakeDirectory{configured: true, members: []discord.Member{
		{User: discord.User{ID: "111111111111111111", Username: "jens", Avatar: &avatar}},
		{User: discord.User{ID: "222222222222222222", Username: "mette"}},
	}}
	svc := NewMemberService(directory, &fakeTrustReader{}, "guild1")

	users, err := svc.DirectoryUsers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NotNil(t, users[0].Avatar)
	assert.Nil(t, users[1].Avatar)
}

func TestMemberService_DirectoryUsers_ListFailure(t *testing.T) {
	svc := NewMemberService(&fakeDirectory{configured: true, failList: true}, &fakeTrustReader{}, "guild1")

	_, err := svc.DirectoryUsers(context.Background())
	assert.Error(t, err)
}
