package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/averarp/community-backend/internal/goroutine"
	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/models"
)

const defaultLogLimit = 100

// LogStore — файловый журнал аудита.
type LogStore interface {
	Append(entry models.LogEntry) error
	All() []models.LogEntry
}

// LogBroadcaster получает свежие записи журнала (live-лента админки).
type LogBroadcaster interface {
	BroadcastLogEntry(entry models.LogEntry)
}

// AuditService ведёт журнал аудита. Запись никогда не роняет вызвавшую
// операцию: ошибки журнала только логируются.
type AuditService struct {
	repo        LogStore
	broadcaster LogBroadcaster
}

// NewAuditService создаёт сервис журнала.
func NewAuditService(repo LogStore) *AuditService {
	return &AuditService{repo: repo}
}

// SetBroadcaster подключает live-ленту. Может быть nil.
func (s *AuditService) SetBroadcaster(b LogBroadcaster) {
	s.broadcaster = b
}

// Append добавляет запись журнала и возвращает её.
// Сбой персистентности проглатывается: аудит best-effort.
func (s *AuditService) Append(action, userID, userName, details string) models.LogEntry {
	entry := models.LogEntry{
		ID:        uuid.NewString(),
		Action:    action,
		UserID:    userID,
		UserName:  userName,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	if err := s.repo.Append(entry); err != nil {
		logger.WithComponent("audit").Errorf("не удалось записать журнал (%s): %v", action, err)
	}

	if b := s.broadcaster; b != nil {
		goroutine.SafeGo(func() {
			b.BroadcastLogEntry(entry)
		})
	}

	return entry
}

// Query возвращает записи журнала: новые первыми, с фильтрами по
// пользователю и действию. limit <= 0 означает дефолтные 100.
func (s *AuditService) Query(userID, action string, limit int) []models.LogEntry {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > models.LogRetention {
		limit = models.LogRetention
	}

	entries := s.repo.All()

	filtered := entries[:0:0]
	for _, e := range entries {
		if userID != "" && e.UserID != userID {
			continue
		}
		if action != "" && e.Action != action {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}
