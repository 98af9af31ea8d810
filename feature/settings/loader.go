package settings

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface for the settings feature.
type Feature struct {
	service *Service
	handler *Handler
	db      *gorm.DB
}

// NewFeature creates a new settings feature.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	service := NewService(db, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service),
		db:      db,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "settings"
}

// IsEnabled checks if the feature is enabled. Settings need the registration
// store, so the feature turns itself off when the application runs without
// a database.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load migrates the settings tables and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.db.AutoMigrate(&Setting{}, &SettingChange{}); err != nil {
		return fmt.Errorf("failed to migrate settings tables: %w", err)
	}
	f.handler.RegisterRoutes(app)
	return nil
}
