package settings

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLoader(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:settings_loader?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	feature := NewFeature(db, zap.NewNop())
	assert.Equal(t, "settings", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	// Load migrates the document and trail tables.
	assert.True(t, db.Migrator().HasTable("settings"))
	assert.True(t, db.Migrator().HasTable("setting_changes"))
}

func TestLoader_DisabledWithoutStore(t *testing.T) {
	feature := NewFeature(nil, zap.NewNop())
	assert.False(t, feature.IsEnabled())
}
