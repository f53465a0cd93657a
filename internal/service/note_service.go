package service

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/averarp/community-backend/internal/logger"
	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/pkg/apperror"
	"github.com/averarp/community-backend/internal/validation"
)

// noteImageURLPrefix — под этим путём раздаются изображения заметок.
const noteImageURLPrefix = "/api/admin/users/notes/image/"

// dataURLPrefix срезает префикс data:image/...;base64, если фронтенд его прислал.
var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// NoteStore — файловое хранилище заметок.
type NoteStore interface {
	Insert(note models.UserNote) error
	ListByUser(userID string) []models.UserNote
}

// ImageStore — файловое хранилище изображений заметок.
type ImageStore interface {
	Save(noteID string, data []byte) (string, error)
	Read(fileName string) ([]byte, error)
	Exists(fileName string) bool
}

// NoteService ведёт заметки администраторов о пользователях.
// Заметки не редактируются и не удаляются.
type NoteService struct {
	repo   NoteStore
	images ImageStore
	audit  AuditLog
}

// NewNoteService создаёт сервис заметок.
func NewNoteService(repo NoteStore, images ImageStore, audit AuditLog) *NoteService {
	return &NoteService{repo: repo, images: images, audit: audit}
}

// Create добавляет заметку. Изображение опционально (base64 PNG);
// сбой сохранения изображения не отменяет заметку — она сохраняется без него.
func (s *NoteService) Create(userID, content string, imageBase64 *string, actor string) (models.UserNote, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return models.UserNote{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("текст заметки", content); err != nil {
		return models.UserNote{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("текст заметки", content, 0, validation.MaxNoteLength); err != nil {
		return models.UserNote{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	noteID := fmt.Sprint(time.Now().UnixMilli())

	var imageURL *string
	if imageBase64 != nil && *imageBase64 != "" {
		if fileName, err := s.saveImage(noteID, *imageBase64); err != nil {
			logger.WithComponent("notes").Warnf("не удалось сохранить изображение заметки %s: %v", noteID, err)
		} else {
			u := noteImageURLPrefix + fileName
			imageURL = &u
		}
	}

	note := models.UserNote{
		ID:        noteID,
		UserID:    userID,
		Content:   strings.TrimSpace(content),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
		CreatedBy: actor,
	}

	if err := s.repo.Insert(note); err != nil {
		return models.UserNote{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить заметку")
	}

	s.audit.Append(models.ActionNoteAdded, userID, actor,
		fmt.Sprintf("Note tilføjet til bruger %s", userID))

	return note, nil
}

// ListByUser возвращает заметки о пользователе.
func (s *NoteService) ListByUser(userID string) ([]models.UserNote, error) {
	if err := validation.ValidateUserID(userID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	notes := s.repo.ListByUser(userID)
	if notes == nil {
		notes = []models.UserNote{}
	}
	return notes, nil
}

// Image читает изображение заметки по имени файла.
func (s *NoteService) Image(fileName string) ([]byte, error) {
	if !s.images.Exists(fileName) {
		return nil, apperror.New(apperror.ErrCodeNotFound, "изображение не найдено")
	}

	data, err := s.images.Read(fileName)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось прочитать изображение")
	}
	return data, nil
}

// saveImage декодирует base64 и проверяет, что это действительно PNG,
// прежде чем класть файл на диск.
func (s *NoteService) saveImage(noteID, imageBase64 string) (string, error) {
	raw := dataURLPrefix.ReplaceAllString(imageBase64, "")

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("некорректный base64: %w", err)
	}

	if !filetype.IsImage(data) || !filetype.Is(data, "png") {
		return "", fmt.Errorf("файл не является PNG")
	}

	return s.images.Save(noteID, data)
}
