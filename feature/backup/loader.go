package backup

import (
	"context"

	engine "reg-manager/core/backup"
	"reg-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface for the backup feature.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new backup feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, schema *engine.Schema, defaults engine.Config) *Feature {
	service := NewService(client, bucket, logger, db, schema, defaults)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "backup"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load prepares the artifact bucket and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.EnsureBucket(context.Background()); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
