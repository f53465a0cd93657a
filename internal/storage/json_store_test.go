package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONStore_SaveAndLoad(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), "test.json")
	assert.NoError(t, err)

	saved := map[string]testDoc{
		"a": {Name: "første", Count: 1},
		"b": {Name: "anden", Count: 2},
	}
	assert.NoError(t, store.Save(saved))

	var loaded map[string]testDoc
	assert.NoError(t, store.Load(&loaded))
	assert.Equal(t, saved, loaded)
}

func TestJSONStore_Load_MissingFile(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), "missing.json")
	assert.NoError(t, err)

	// Первый запуск: файла ещё нет, структура остаётся пустой.
	var loaded []testDoc
	assert.NoError(t, store.Load(&loaded))
	assert.Nil(t, loaded)
}

func TestJSONStore_Load_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONStore(dir, "broken.json")
	assert.NoError(t, err)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{не json"), 0o644))

	var loaded []testDoc
	assert.Error(t, store.Load(&loaded))
}

func TestJSONStore_Exists(t *testing.T) {
	store, err := NewJSONStore(t.TempDir(), "data.json")
	assert.NoError(t, err)

	assert.False(t, store.Exists())
	assert.NoError(t, store.Save([]testDoc{}))
	assert.True(t, store.Exists())
}

func TestJSONStore_Save_Overwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONStore(dir, "data.json")
	assert.NoError(t, err)

	assert.NoError(t, store.Save([]testDoc{{Name: "gammel"}}))
	assert.NoError(t, store.Save([]testDoc{{Name: "ny"}, {Name: "nyere"}}))

	var loaded []testDoc
	assert.NoError(t, store.Load(&loaded))
	assert.Len(t, loaded, 2)
	assert.Equal(t, "ny", loaded[0].Name)

	// Временный файл после rename не остаётся.
	_, statErr := os.Stat(filepath.Join(dir, "data.json.tmp"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewJSONStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := NewJSONStore(dir, "data.json")
	assert.NoError(t, err)

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
