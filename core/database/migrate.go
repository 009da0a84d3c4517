package database

import (
	"context"
	_ "embed"
	"fmt"

	"clinic-booking/core/logger"
)

//go:embed schema.sql
var schema string

// Migrate creates the doctors, slots and bookings tables when missing.
func Migrate(ctx context.Context, db IDatabase) error {
	logger.Info("Database:Migrate:Start")
	if err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("Database:Migrate:Error", "error", err)
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("Database:Migrate:Done")
	return nil
}
