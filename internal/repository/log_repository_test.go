package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/storage"
)

func newLogStore(t *testing.T) *storage.JSONStore {
	t.Helper()
	store, err := storage.NewJSONStore(t.TempDir(), "logs.json")
	assert.NoError(t, err)
	return store
}

func TestLogRepository_AppendAndAll(t *testing.T) {
	repo, err := NewLogRepository(newLogStore(t))
	assert.NoError(t, err)

	assert.NoError(t, repo.Append(models.LogEntry{ID: "1", Action: models.ActionWarningAdded}))
	assert.NoError(t, repo.Append(models.LogEntry{ID: "2", Action: models.ActionUserBanned}))

	entries := repo.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, "2", entries[1].ID)
	assert.Equal(t, 2, repo.Len())
}

func TestLogRepository_ReloadFromFile(t *testing.T) {
	store := newLogStore(t)

	repo, err := NewLogRepository(store)
	assert.NoError(t, err)
	assert.NoError(t, repo.Append(models.LogEntry{ID: "1", Action: models.ActionNoteAdded}))

	// Второй репозиторий над тем же файлом видит записи первого.
	reloaded, err := NewLogRepository(store)
	assert.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "1", reloaded.All()[0].ID)
}

func TestLogRepository_RetentionTrim(t *testing.T) {
	store := newLogStore(t)

	// Журнал уже на лимите: следующая запись вытесняет старейшую.
	full := make([]models.LogEntry, models.LogRetention)
	for i := range full {
		full[i] = models.LogEntry{ID: fmt.Sprint(i)}
	}
	repo := &LogRepository{store: store, entries: full}

	assert.NoError(t, repo.Append(models.LogEntry{ID: "newest"}))

	entries := repo.All()
	assert.Len(t, entries, models.LogRetention)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, "newest", entries[len(entries)-1].ID)
}

func TestLogRepository_AllReturnsCopy(t *testing.T) {
	repo, err := NewLogRepository(newLogStore(t))
	assert.NoError(t, err)
	assert.NoError(t, repo.Append(models.LogEntry{ID: "1"}))

	entries := repo.All()
	entries[0].ID = "подменили"

	assert.Equal(t, "1", repo.All()[0].ID)
}
