package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/averarp/community-backend/internal/models"
	"github.com/averarp/community-backend/internal/storage"
)

func TestTrustRepository_SaveAndGet(t *testing.T) {
	store, err := storage.NewJSONStore(t.TempDir(), "trust-data.json")
	assert.NoError(t, err)

	repo, err := NewTrustRepository(store)
	assert.NoError(t, err)

	_, ok := repo.Get("111111111111111111")
	assert.False(t, ok)

	rec := models.NewTrustRecord()
	rec.TrustScore = 85
	assert.NoError(t, repo.Save("111111111111111111", rec))

	got, ok := repo.Get("111111111111111111")
	assert.True(t, ok)
	assert.Equal(t, 85, got.TrustScore)

	all := repo.All()
	assert.Len(t, all, 1)
}

func TestTrustRepository_ReloadFromFile(t *testing.T) {
	store, err := storage.NewJSONStore(t.TempDir(), "trust-data.json")
	assert.NoError(t, err)

	repo, err := NewTrustRepository(store)
	assert.NoError(t, err)

	rec := models.NewTrustRecord()
	rec.Warnings = append(rec.Warnings, models.Warning{ID: "w1", Reason: "Regelbrud", Severity: models.SeverityLow})
	assert.NoError(t, repo.Save("111111111111111111", rec))

	reloaded, err := NewTrustRepository(store)
	assert.NoError(t, err)
	got, ok := reloaded.Get("111111111111111111")
	assert.True(t, ok)
	assert.Len(t, got.Warnings, 1)
	assert.Equal(t, "Regelbrud", got.Warnings[0].Reason)
}
