package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	"maintlog/cmd/migration/initialize"
	"maintlog/cmd/migration/seed"
	"maintlog/config"
	"maintlog/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

const MIGRATION_PATH = "cmd/migration/migrations"

// migrationDialects maps a DB_DRIVER to its database/sql driver and
// sql-migrate dialect.
var migrationDialects = map[string]string{
	config.DriverMySQL:    "mysql",
	config.DriverPostgres: "postgres",
	config.DriverSQLite:   "sqlite3",
}

func main() {
	log := logger.New("migrations").Function("main")

	config, err := config.InitConfig()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	if config.IsMemoryStore() {
		log.Info("Memory store configured, nothing to migrate")
		return
	}

	db, err := database.New(config)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	migrationType := "up"
	if len(os.Args) > 1 {
		migrationType = os.Args[1]
	}

	switch migrationType {
	case "up":
		err = migrateUp(db, config, log)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				log.Er("failed to parse step", err)
				os.Exit(1)
			}
		}
		err = migrateDown(db, steps, config, log)
	case "seed":
		err = migrateSeed(db, config, log)
	default:
		err = log.Error("unknown migration command", "command", migrationType)
	}

	if err != nil {
		log.Er("failed to run migrations", err)
		os.Exit(1)
	}

	log.Info("Migrations complete")
}

func migrateUp(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateUp")
	log.Info("Running migrations up")

	if err := runMigrations(db, config, log, migrate.Up, 0); err != nil {
		return log.Err("failed to run migrations", err)
	}

	if err := db.MigrateModels(); err != nil {
		return log.Err("failed to auto migrate", err)
	}

	if err := initialize.InitializeTables(db.SQL, config, log); err != nil {
		return log.Err("failed to initialize tables", err)
	}

	return nil
}

func migrateDown(db database.DB, steps int, config config.Config, log logger.Logger) error {
	log = log.Function("migrateDown")
	log.Info("Running migrations down", "steps", steps)

	if err := runMigrations(db, config, log, migrate.Down, steps); err != nil {
		return log.Err("failed to run migrations", err)
	}

	return nil
}

func migrateSeed(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("migrateSeed")
	log.Info("Running seed")

	if err := cleanDatabase(db, log); err != nil {
		return log.Err("failed to clean database", err)
	}

	if err := db.FlushAllCaches(); err != nil {
		return log.Err("failed to flush cache databases", err)
	}

	if err := migrateUp(db, config, log); err != nil {
		return log.Err("failed to migrate", err)
	}

	if err := seed.Seed(db.SQL, config, log); err != nil {
		return log.Err("failed to seed database", err)
	}

	return nil
}

// runMigrations applies the file migrations for the configured driver. max
// limits the number of migrations; 0 means all.
func runMigrations(
	db database.DB,
	config config.Config,
	log logger.Logger,
	direction migrate.MigrationDirection,
	max int,
) error {
	log = log.Function("runMigrations")

	dialect, ok := migrationDialects[config.DatabaseDriver]
	if !ok {
		return log.Error("unsupported migration driver", "driver", config.DatabaseDriver)
	}

	dir := filepath.Join(MIGRATION_PATH, config.DatabaseDriver)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Info("Migrations directory does not exist, skipping file-based migrations", "dir", dir)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return log.Err("failed to check for migration files", err)
	}

	if len(files) == 0 {
		log.Info("No migration files found, skipping file-based migrations")
		return nil
	}

	sqlDB, closeDB, err := openMigrationDB(db, config, dialect)
	if err != nil {
		return log.Err("failed to open database for migrations", err)
	}
	defer func() {
		if err := closeDB(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	migrations := &migrate.FileMigrationSource{Dir: dir}

	n, err := migrate.ExecMax(sqlDB, dialect, migrations, direction, max)
	if err != nil {
		return log.Err("failed to run migrations", err)
	}

	if n == 0 {
		log.Info("No migrations to apply")
	} else {
		log.Info("Applied migrations", "migrationCount", n)
	}

	return nil
}

// openMigrationDB opens a dedicated connection for mysql and postgres. SQLite
// shares the application pool because it holds a single connection.
func openMigrationDB(
	db database.DB,
	cfg config.Config,
	dialect string,
) (*sql.DB, func() error, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMySQL:
		sqlDB, err := sql.Open(dialect, database.MySQLDSN(cfg))
		if err != nil {
			return nil, nil, err
		}
		return sqlDB, sqlDB.Close, nil
	case config.DriverPostgres:
		sqlDB, err := sql.Open(dialect, database.PostgresDSN(cfg))
		if err != nil {
			return nil, nil, err
		}
		return sqlDB, sqlDB.Close, nil
	default:
		sqlDB, err := db.SQL.DB()
		if err != nil {
			return nil, nil, err
		}
		return sqlDB, func() error { return nil }, nil
	}
}

func cleanDatabase(db database.DB, log logger.Logger) error {
	log = log.Function("cleanDatabase")
	log.Info("Cleaning database before seeding")

	if err := db.SQL.Migrator().DropTable(database.ModelsToMigrate...); err != nil {
		return log.Err("failed to drop tables", err)
	}

	log.Info("Database cleaned successfully")
	return nil
}
