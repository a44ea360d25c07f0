package initialize

import (
	"maintlog/config"
	. "maintlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitializeTables inserts the configured lookup values. Values already
// present are left alone, so it is safe to run on every migration.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing lookup tables")

	factories := make([]Factory, 0, len(config.Factories()))
	for _, value := range config.Factories() {
		factories = append(factories, Factory{Factory: value})
	}
	if err := insertMissing(db, &factories, len(factories)); err != nil {
		return log.Err("failed to initialize factories", err)
	}

	statuses := make([]Status, 0, len(config.Statuses()))
	for _, value := range config.Statuses() {
		statuses = append(statuses, Status{Status: value})
	}
	if err := insertMissing(db, &statuses, len(statuses)); err != nil {
		return log.Err("failed to initialize statuses", err)
	}

	personnel := make([]Personnel, 0, len(config.Personnel()))
	for _, value := range config.Personnel() {
		personnel = append(personnel, Personnel{Name: value})
	}
	if err := insertMissing(db, &personnel, len(personnel)); err != nil {
		return log.Err("failed to initialize personnel", err)
	}

	log.Info(
		"Lookup tables initialized",
		"factories", len(factories),
		"statuses", len(statuses),
		"personnel", len(personnel),
	)
	return nil
}

func insertMissing(db *gorm.DB, rows any, count int) error {
	if count == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}
