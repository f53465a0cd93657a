package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFilename(t *testing.T) {
	assert.True(t, ValidFilename("1700000000000.png"))
	assert.True(t, ValidFilename("abc.DEF.png"))

	assert.False(t, ValidFilename(""))
	assert.False(t, ValidFilename("../secret.png"))
	assert.False(t, ValidFilename("dir/file.png"))
	assert.False(t, ValidFilename("file name.png"))
	assert.False(t, ValidFilename("file-name.png"))
}

func TestImageStorage_SaveAndRead(t *testing.T) {
	storage, err := NewImageStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	data := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

	fileName, err := storage.Save("1700000000000", data)
	assert.NoError(t, err)
	assert.Equal(t, "1700000000000.png", fileName)
	assert.True(t, storage.Exists(fileName))

	loaded, err := storage.Read(fileName)
	assert.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func TestImageStorage_Save_TooLarge(t *testing.T) {
	storage, err := NewImageStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	_, err = storage.Save("1700000000000", make([]byte, 1024*1024+1))
	assert.Error(t, err)
}

func TestImageStorage_Save_BadNoteID(t *testing.T) {
	storage, err := NewImageStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	_, err = storage.Save("../escape", []byte{1})
	assert.Error(t, err)
}

func TestImageStorage_Read_BadFilename(t *testing.T) {
	storage, err := NewImageStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	_, err = storage.Read("../../etc/passwd")
	assert.Error(t, err)
	assert.False(t, storage.Exists("../../etc/passwd"))
}

func TestImageStorage_Read_Missing(t *testing.T) {
	storage, err := NewImageStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	_, err = storage.Read("missing.png")
	assert.Error(t, err)
	assert.False(t, storage.Exists("missing.png"))
}
