package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/pkg/apperror"
	"github.com/averarp/community-backend/internal/validation"
)

// TrustStore — файловое хранилище trust-записей.
type TrustStore interface {
	Get(userID string) (models.TrustRecord, bool)
	Save(userID string, rec models.TrustRecord) error
	All() map[string]models.TrustRecord
}

// AuditLog — журнал аудита; запись не возвращает ошибку (best-effort).
type AuditLog interface {
	Append(action, userID, userName, details string) models.LogEntry
}

// TrustService ведёт trust score и предупреждения. Каждое изменение очков
// привязано к конкретному предупреждению и его серьёзности, поэтому
// добавление и последующее снятие одного предупреждения нейтральны для
// очков (в пределах клампа [0, 100]).
type TrustService struct {
	repo  TrustStore
	audit AuditLog
}

// NewTrustService создаёт сервис.
func NewTrustService(repo TrustStore, audit AuditLog) *TrustService {
	return &TrustService{repo: repo, audit: audit}
}

// GetOrCreate возвращает запись пользователя; для нового создаёт
// {trustScore: 100, warnings: []} и сразу сохраняет её.
func (s *TrustService) GetOrCreate(userID string) (models.TrustRecord, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if rec, ok := s.repo.Get(userID); ok {
		return rec, nil
	}

	rec := models.NewTrustRecord()
	if err := s.repo.Save(userID, rec); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить trust-данные")
	}
	return rec, nil
}

// AdjustScore сдвигает очки на delta с клампом [0, 100].
func (s *TrustService) AdjustScore(userID string, delta int, actor string) (models.TrustRecord, error) {
	rec, err := s.GetOrCreate(userID)
	if err != nil {
		return models.TrustRecord{}, err
	}

	oldScore := rec.TrustScore
	rec.TrustScore = models.ClampScore(oldScore + delta)
	if err := s.repo.Save(userID, rec); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить trust-данные")
	}

	s.audit.Append(models.ActionTrustScoreAdjusted, userID, actor,
		fmt.Sprintf("Trust score justeret fra %d til %d (%+d)", oldScore, rec.TrustScore, delta))
	return rec, nil
}

// SetScore выставляет очки в абсолютное значение с клампом [0, 100].
func (s *TrustService) SetScore(userID string, value int, actor string) (models.TrustRecord, error) {
	rec, err := s.GetOrCreate(userID)
	if err != nil {
		return models.TrustRecord{}, err
	}

	oldScore := rec.TrustScore
	rec.TrustScore = models.ClampScore(value)
	if err := s.repo.Save(userID, rec); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить trust-данные")
	}

	s.audit.Append(models.ActionTrustScoreSet, userID, actor,
		fmt.Sprintf("Trust score sat fra %d til %d", oldScore, rec.TrustScore))
	return rec, nil
}

// AddWarning добавляет предупреждение и списывает очки по серьёзности
// (low 5, medium 10, high 20). Пустая серьёзность трактуется как low.
func (s *TrustService) AddWarning(userID, reason string, note *string, severity, actor string) (models.TrustRecord, error) {
	if err := validation.ValidateReason("причина предупреждения", reason); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if severity == "" {
		severity = models.SeverityLow
	}
	if err := validation.ValidateSeverity(severity); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	rec, err := s.GetOrCreate(userID)
	if err != nil {
		return models.TrustRecord{}, err
	}

	warning := models.Warning{
		ID:       uuid.NewString(),
		Reason:   strings.TrimSpace(reason),
		Note:     note,
		Severity: severity,
		IssuedAt: time.Now().UTC(),
		IssuedBy: actor,
	}
	rec.Warnings = append(rec.Warnings, warning)

	oldScore := rec.TrustScore
	rec.TrustScore = models.ClampScore(oldScore - models.SeverityPenalty(severity))
	if err := s.repo.Save(userID, rec); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить trust-данные")
	}

	details := fmt.Sprintf("Advarsel tilføjet: %s (%s alvorlighed). Trust score reduceret fra %d til %d",
		warning.Reason, severity, oldScore, rec.TrustScore)
	if note != nil && *note != "" {
		details += ". Note: " + *note
	}
	s.audit.Append(models.ActionWarningAdded, userID, actor, details)

	return rec, nil
}

// RemoveWarning снимает предупреждение: заполняет поля Removed* (запись
// остаётся в истории) и возвращает очки той же серьёзности с клампом.
func (s *TrustService) RemoveWarning(userID, warningID, removalReason, actor string) (models.TrustRecord, error) {
	if err := validation.ValidateReason("причина снятия", removalReason); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	rec, err := s.GetOrCreate(userID)
	if err != nil {
		return models.TrustRecord{}, err
	}

	idx := -1
	for i := range rec.Warnings {
		if rec.Warnings[i].ID == warningID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.TrustRecord{}, apperror.ErrWarningNotFound
	}

	now := time.Now().UTC()
	reason := strings.TrimSpace(removalReason)
	warning := &rec.Warnings[idx]
	warning.RemovedAt = &now
	warning.RemovedBy = &actor
	warning.RemovalReason = &reason

	oldScore := rec.TrustScore
	rec.TrustScore = models.ClampScore(oldScore + models.SeverityPenalty(warning.Severity))
	if err := s.repo.Save(userID, rec); err != nil {
		return models.TrustRecord{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить trust-данные")
	}

	s.audit.Append(models.ActionWarningRemoved, userID, actor,
		fmt.Sprintf("Advarsel fjernet: %s (%s alvorlighed). Trust score forhøjet fra %d til %d. Grund: %s",
			warning.Reason, warning.Severity, oldScore, rec.TrustScore, reason))

	return rec, nil
}

// All возвращает все trust-записи (для объединённого списка пользователей).
func (s *TrustService) All() map[string]models.TrustRecord {
	return s.repo.All()
}
