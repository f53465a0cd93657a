package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore — простое файловое хранилище: одна JSON-структура на файл,
// каждая запись перезаписывает файл целиком. Конкурентный доступ
// сериализуют репозитории, хранилище само блокировок не держит.
type JSONStore struct {
	filePath string
}

// NewJSONStore создаёт хранилище и каталог данных, если его ещё нет.
func NewJSONStore(dataDir, filename string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", dataDir, err)
	}

	return &JSONStore{
		filePath: filepath.Join(dataDir, filename),
	}, nil
}

// Load читает файл в переданную структуру. Отсутствующий файл — не ошибка:
// структура остаётся пустой (первый запуск).
func (s *JSONStore) Load(data interface{}) error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("storage: не удалось открыть %s: %w", s.filePath, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(data); err != nil {
		return fmt.Errorf("storage: не удалось разобрать %s: %w", s.filePath, err)
	}
	return nil
}

// Save записывает структуру в файл целиком (pretty-printed JSON).
// Запись идёт во временный файл с последующим rename, чтобы читатели
// никогда не видели полузаписанный документ.
func (s *JSONStore) Save(data interface{}) error {
	tempPath := s.filePath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("storage: не удалось создать файл: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: ошибка записи %s: %w", s.filePath, err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}
	return nil
}

// Exists сообщает, создан ли уже файл хранилища.
func (s *JSONStore) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}
