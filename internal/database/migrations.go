package database

import (
	"maintlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

var ModelsToMigrate = []any{
	&models.MaintenanceTicket{},
	&models.Factory{},
	&models.Status{},
	&models.Personnel{},
}

// MigrateModels runs GORM AutoMigrate for the ticket and lookup tables.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range ModelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}
