package config_test

import (
	"testing"

	"reg-manager/core/backup"
	"reg-manager/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 64, cfg.Server.BodyLimitMB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "artifacts", cfg.Storage.Bucket)
	assert.Equal(t, backup.PolicyCurrentWins, cfg.Merge.DefaultPolicy)
	assert.Empty(t, cfg.Merge.SchemaPath)
	assert.False(t, cfg.Merge.PreserveNewer)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9099")
	t.Setenv("MERGE_DEFAULT_POLICY", string(backup.PolicyMergeFields))
	t.Setenv("MERGE_PRESERVE_NEWER", "true")
	t.Setenv("STORAGE_BUCKET", "artifacts-staging")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9099", cfg.Server.Port)
	assert.Equal(t, backup.PolicyMergeFields, cfg.Merge.DefaultPolicy)
	assert.True(t, cfg.Merge.PreserveNewer)
	assert.Equal(t, "artifacts-staging", cfg.Storage.Bucket)
}
