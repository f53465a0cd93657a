package repository

import (
	"sync"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/storage"
)

// LogRepository хранит журнал аудита в logs.json (массив, новые в конце).
// Файл никогда не содержит больше models.LogRetention записей: при
// переполнении старейшие отбрасываются.
type LogRepository struct {
	mu      sync.RWMutex
	store   *storage.JSONStore
	entries []models.LogEntry
}

// NewLogRepository создаёт репозиторий и читает существующий журнал.
func NewLogRepository(store *storage.JSONStore) (*LogRepository, error) {
	r := &LogRepository{store: store}
	if err := store.Load(&r.entries); err != nil {
		return nil, err
	}
	if r.entries == nil {
		r.entries = []models.LogEntry{}
	}
	return r, nil
}

// Append добавляет запись, усекает журнал до лимита и сохраняет файл.
func (r *LogRepository) Append(entry models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if len(r.entries) > models.LogRetention {
		// Отбрасываем старейшие; копируем, чтобы не держать старый backing array.
		trimmed := make([]models.LogEntry, models.LogRetention)
		copy(trimmed, r.entries[len(r.entries)-models.LogRetention:])
		r.entries = trimmed
	}
	return r.store.Save(r.entries)
}

// All возвращает копию журнала в порядке добавления.
func (r *LogRepository) All() []models.LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len возвращает текущий размер журнала.
func (r *LogRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
