package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/averarp/community-backend/internal/models"
)

type memLogStore struct {
	entries    []models.LogEntry
	failAppend bool
}

func (s *memLogStore) Append(entry models.LogEntry) error {
	if s.failAppend {
		return errors.New("диск переполнен")
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *memLogStore) All() []models.LogEntry {
	out := make([]models.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

type chanBroadcaster struct {
	received chan models.LogEntry
}

func (b *chanBroadcaster) BroadcastLogEntry(entry models.LogEntry) {
	b.received <- entry
}

func TestAuditService_Append(t *testing.T) {
	store := &memLogStore{}
	svc := NewAuditService(store)

	entry := svc.Append(models.ActionWarningAdded, "111111111111111111", "Admin", "Advarsel tilføjet")
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, models.ActionWarningAdded, entry.Action)
	assert.False(t, entry.Timestamp.IsZero())
	assert.Len(t, store.entries, 1)
}

func TestAuditService_Append_SwallowsStoreFailure(t *testing.T) {
	store := &memLogStore{failAppend: true}
	svc := NewAuditService(store)

	// Сбой журнала не должен влиять на вызывающую операцию.
	entry := svc.Append(models.ActionUserBanned, "111111111111111111", "Admin", "Bruger banned")
	assert.NotEmpty(t, entry.ID)
	assert.Empty(t, store.entries)
}

func TestAuditService_Append_Broadcasts(t *testing.T) {
	store := &memLogStore{}
	svc := NewAuditService(store)

	broadcaster := &chanBroadcaster{received: make(chan models.LogEntry, 1)}
	svc.SetBroadcaster(broadcaster)

	sent := svc.Append(models.ActionNoteAdded, "111111111111111111", "Admin", "Note tilføjet")

	select {
	case got := <-broadcaster.received:
		assert.Equal(t, sent.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("запись не дошла до broadcaster")
	}
}

func TestAuditService_Query_NewestFirst(t *testing.T) {
	store := &memLogStore{}
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		store.entries = append(store.entries, models.LogEntry{
			ID:        fmt.Sprint(i),
			Action:    models.ActionTrustScoreSet,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := NewAuditService(store)

	entries := svc.Query("", "", 0)
	assert.Len(t, entries, 5)
	assert.Equal(t, "4", entries[0].ID)
	assert.Equal(t, "0", entries[4].ID)
}

func TestAuditService_Query_Filters(t *testing.T) {
	store := &memLogStore{entries: []models.LogEntry{
		{ID: "1", Action: models.ActionWarningAdded, UserID: "111111111111111111"},
		{ID: "2", Action: models.ActionWarningRemoved, UserID: "111111111111111111"},
		{ID: "3", Action: models.ActionWarningAdded, UserID: "222222222222222222"},
	}}
	svc := NewAuditService(store)

	entries := svc.Query("111111111111111111", "", 0)
	assert.Len(t, entries, 2)

	entries = svc.Query("", models.ActionWarningAdded, 0)
	assert.Len(t, entries, 2)

	entries = svc.Query("111111111111111111", models.ActionWarningAdded, 0)
	assert.Len(t, entries, 1)
	assert.Equal(t, "1", entries[0].ID)

	entries = svc.Query("333333333333333333", "", 0)
	assert.Empty(t, entries)
}

func TestAuditService_Query_DefaultLimit(t *testing.T) {
	store := &memLogStore{}
	for i := 0; i < 150; i++ {
		store.entries = append(store.entries, models.LogEntry{
			ID:        fmt.Sprint(i),
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
	}
	svc := NewAuditService(store)

	entries := svc.Query("", "", 0)
	assert.Len(t, entries, 100)
	assert.Equal(t, "149", entries[0].ID)

	entries = svc.Query("", "", 10)
	assert.Len(t, entries, 10)
}
