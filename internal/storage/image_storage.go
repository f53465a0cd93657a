package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// filenamePattern ограничивает имена файлов изображений: только буквы,
// цифры и точки, никаких разделителей пути.
var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9.]+$`)

// ImageStorage хранит изображения, прикреплённые к заметкам.
type ImageStorage struct {
	rootPath string
	maxBytes int64
}

// NewImageStorage создаёт файловое хранилище изображений.
func NewImageStorage(rootPath string, maxSizeMB int64) (*ImageStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &ImageStorage{
		rootPath: rootPath,
		maxBytes: maxSizeMB * 1024 * 1024,
	}, nil
}

// ValidFilename проверяет имя файла на допустимые символы.
func ValidFilename(name string) bool {
	return filenamePattern.MatchString(name)
}

// Save сохраняет PNG под именем <noteID>.png и возвращает имя файла.
func (s *ImageStorage) Save(noteID string, data []byte) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("storage: размер изображения превышает лимит %d байт", s.maxBytes)
	}

	fileName := noteID + ".png"
	if !ValidFilename(fileName) {
		return "", fmt.Errorf("storage: недопустимое имя файла %q", fileName)
	}

	targetPath := filepath.Join(s.rootPath, fileName)
	tempPath := targetPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: ошибка записи изображения: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return fileName, nil
}

// Read возвращает содержимое изображения по имени файла.
func (s *ImageStorage) Read(fileName string) ([]byte, error) {
	if !ValidFilename(fileName) {
		return nil, fmt.Errorf("storage: недопустимое имя файла %q", fileName)
	}

	data, err := os.ReadFile(filepath.Join(s.rootPath, fileName))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Exists сообщает, есть ли такой файл.
func (s *ImageStorage) Exists(fileName string) bool {
	if !ValidFilename(fileName) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.rootPath, fileName))
	return err == nil
}
