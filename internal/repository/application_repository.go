package repository

import (
	"sync"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/storage"
)

// ApplicationRepository хранит заявки в applications.json (массив).
type ApplicationRepository struct {
	mu    sync.RWMutex
	store *storage.JSONStore
	apps  []models.Application
}

// NewApplicationRepository создаёт репозиторий и читает существующие заявки.
func NewApplicationRepository(store *storage.JSONStore) (*ApplicationRepository, error) {
	r := &ApplicationRepository{store: store}
	if err := store.Load(&r.apps); err != nil {
		return nil, err
	}
	if r.apps == nil {
		r.apps = []models.Application{}
	}
	return r, nil
}

// List возвращает копию всех заявок в порядке добавления.
func (r *ApplicationRepository) List() []models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Application, len(r.apps))
	copy(out, r.apps)
	return out
}

// ListByUser возвращает заявки конкретного пользователя.
func (r *ApplicationRepository) ListByUser(userID string) []models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Application
	for _, app := range r.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	return out
}

// Get ищет заявку по id.
func (r *ApplicationRepository) Get(id string) (models.Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, app := range r.apps {
		if app.ID == id {
			return app, true
		}
	}
	return models.Application{}, false
}

// Insert добавляет заявку и синхронно сохраняет файл.
func (r *ApplicationRepository) Insert(app models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.apps = append(r.apps, app)
	return r.store.Save(r.apps)
}

// Replace заменяет заявку с тем же id и синхронно сохраняет файл.
// Возвращает false, если заявка не найдена.
func (r *ApplicationRepository) Replace(app models.Application) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.apps {
		if r.apps[i].ID == app.ID {
			r.apps[i] = app
			return true, r.store.Save(r.apps)
		}
	}
	return false, nil
}
