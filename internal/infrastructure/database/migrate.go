package database

import (
	"github.com/vitafit/payment-service/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	// Custom types must exist before auto-migrate references them
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.Subscription{},
		&model.WebhookEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomTypes creates custom PostgreSQL types
func createCustomTypes(db *gorm.DB) error {
	var exists bool
	db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'webhook_status')`).Scan(&exists)
	if !exists {
		if err := db.Exec(`CREATE TYPE webhook_status AS ENUM ('received', 'processed', 'ignored', 'failed')`).Error; err != nil {
			return err
		}
	}
	return nil
}

// createCustomIndexes creates indexes GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Concurrent webhook deliveries for one user must land on this
	// constraint; the upsert relies on it.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_assinaturas_id_usuario ON assinaturas (id_usuario)`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_webhook_events_failed ON webhook_events (created_at) WHERE status = 'failed'`).Error; err != nil {
		return err
	}

	return nil
}
