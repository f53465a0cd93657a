package repository

import (
	"sync"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/storage"
)

// TrustRepository хранит trust-записи в trust-data.json (map userId -> запись).
// Загружается один раз при старте; каждая мутация перезаписывает файл целиком.
// Мьютекс сериализует read-modify-write внутри процесса; параллельные процессы
// по-прежнему гоняются за файл (last write wins) — это осознанное ограничение
// плоскофайлового хранилища.
type TrustRepository struct {
	mu    sync.RWMutex
	store *storage.JSONStore
	data  map[string]models.TrustRecord
}

// NewTrustRepository создаёт репозиторий и читает существующие данные.
func NewTrustRepository(store *storage.JSONStore) (*TrustRepository, error) {
	r := &TrustRepository{
		store: store,
		data:  make(map[string]models.TrustRecord),
	}
	if err := store.Load(&r.data); err != nil {
		return nil, err
	}
	if r.data == nil {
		r.data = make(map[string]models.TrustRecord)
	}
	return r, nil
}

// Get возвращает запись пользователя, если она есть.
func (r *TrustRepository) Get(userID string) (models.TrustRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.data[userID]
	return rec, ok
}

// Save записывает запись пользователя и синхронно сохраняет файл.
func (r *TrustRepository) Save(userID string, rec models.TrustRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[userID] = rec
	return r.store.Save(r.data)
}

// All возвращает копию всех записей.
func (r *TrustRepository) All() map[string]models.TrustRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.TrustRecord, len(r.data))
	for id, rec := range r.data {
		out[id] = rec
	}
	return out
}
