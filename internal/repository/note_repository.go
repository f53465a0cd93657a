package repository

import (
	"sync"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/storage"
)

// NoteRepository хранит заметки администраторов в user-notes.json (массив).
// Заметки только добавляются.
type NoteRepository struct {
	mu    sync.RWMutex
	store *storage.JSONStore
	notes []models.UserNote
}

// NewNoteRepository создаёт репозиторий и читает существующие заметки.
func NewNoteRepository(store *storage.JSONStore) (*NoteRepository, error) {
	r := &NoteRepository{store: store}
	if err := store.Load(&r.notes); err != nil {
		return nil, err
	}
	if r.notes == nil {
		r.notes = []models.UserNote{}
	}
	return r, nil
}

// Insert добавляет заметку и синхронно сохраняет файл.
func (r *NoteRepository) Insert(note models.UserNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notes = append(r.notes, note)
	return r.store.Save(r.notes)
}

// ListByUser возвращает заметки о пользователе в порядке добавления.
func (r *NoteRepository) ListByUser(userID string) []models.UserNote {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.UserNote
	for _, n := range r.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
