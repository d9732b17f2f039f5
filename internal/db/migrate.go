package db

import (
	"fmt"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/pkg/logger"
)

// Migrate creates or updates the schema for all marketplace entities.
// The FK constraints carry ON DELETE CASCADE so removing a vendor takes its
// stores along, a store its products, a product its reviews.
func Migrate() error {
	logger.Info("Running database migrations", nil)

	err := DB.AutoMigrate(
		&model.User{},
		&model.Store{},
		&model.Product{},
		&model.Review{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database migrations completed", nil)
	return nil
}
