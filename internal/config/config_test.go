package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsToInsecureLocalSecret(t *testing.T) {
	t.Setenv("STUDYBUDDY_MODE", "local")
	t.Setenv("STUDYBUDDY_STORAGE_BACKEND", "memory")
	t.Setenv("STUDYBUDDY_LOCAL_JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultLocalJWTSecret, cfg.LocalJWTSecret)
	assert.True(t, cfg.InsecureLocalSecret())
}

func TestLoadWithOwnLocalSecret(t *testing.T) {
	t.Setenv("STUDYBUDDY_MODE", "local")
	t.Setenv("STUDYBUDDY_STORAGE_BACKEND", "memory")
	t.Setenv("STUDYBUDDY_LOCAL_JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.InsecureLocalSecret())
}

func TestValidate(t *testing.T) {
	base := Config{Mode: ModeLocal, StorageBackend: StorageMemory, SubmitRatePerSecond: 1, SubmitBurst: 1}
	require.NoError(t, base.Validate())

	cloud := base
	cloud.Mode = ModeCloud
	assert.ErrorContains(t, cloud.Validate(), "cloud mode")

	pg := base
	pg.StorageBackend = StoragePostgres
	assert.ErrorContains(t, pg.Validate(), "STUDYBUDDY_DATABASE_URL")

	fs := base
	fs.StorageBackend = StorageFirestore
	assert.ErrorContains(t, fs.Validate(), "STUDYBUDDY_GCP_PROJECT")

	badRate := base
	badRate.SubmitBurst = 0
	assert.Error(t, badRate.Validate())

	assert.False(t, cloud.InsecureLocalSecret())
}
