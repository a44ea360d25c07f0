package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"maintlog/config"
	"maintlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	Lookup CacheClient
}

// DB is the store handle shared by the relational repositories. It is opened
// once at startup and released by Close at shutdown.
type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	log.Info("Initializing database", "driver", config.DatabaseDriver)
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	if config.CacheEnabled() {
		err = db.initializeCacheDB(config)
		if err != nil {
			return DB{}, log.Err("failed to initialize cache database", err)
		}
	} else {
		log.Info("No cache configured, lookups are read from the database")
	}

	return *db, nil
}

func gormConfig() *gorm.Config {
	// Only errors reach the log; the repositories log their own failures.
	gormLogger := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		gormLogger.Config{
			SlowThreshold:             5 * time.Second,
			LogLevel:                  gormLogger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	return &gorm.Config{
		Logger:                 gormLogger,
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

func (s *DB) initializeDB(cfg config.Config) error {
	log := s.log.Function("initializeDB")

	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(MySQLDSN(cfg))
	case config.DriverPostgres:
		dialector = postgres.Open(PostgresDSN(cfg))
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return log.Err("failed to open SQLite database", err, "path", cfg.DatabasePath)
		}
		s.SQL = db
		return nil
	default:
		return log.Err(
			"unsupported database driver",
			types.Wrap(types.ErrConnectionFailure, "unsupported driver "+cfg.DatabaseDriver),
		)
	}

	log.Info(
		"Connecting to database",
		"driver", cfg.DatabaseDriver,
		"host", cfg.DatabaseHost,
		"port", cfg.DatabasePort,
		"database", cfg.DatabaseName,
	)

	db, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return log.Err(
			"failed to open database with GORM",
			types.WrapErr(types.ErrConnectionFailure, "open "+cfg.DatabaseDriver, err),
		)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", types.WrapErr(types.ErrConnectionFailure, "pool", err))
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping database", types.WrapErr(types.ErrConnectionFailure, "ping", err))
	}

	log.Info("Successfully connected to database", "driver", cfg.DatabaseDriver)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

// OpenSQLite opens a SQLite database on a single connection, which keeps
// ":memory:" databases alive for the life of the handle.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, types.WrapErr(types.ErrConnectionFailure, "open sqlite", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, types.WrapErr(types.ErrConnectionFailure, "sqlite pool", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		return nil, types.WrapErr(types.ErrConnectionFailure, "ping sqlite", err)
	}

	return db, nil
}

func MySQLDSN(config config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseName,
	)
}

func PostgresDSN(config config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = closeErr
				if s.log != nil {
					s.log.Er("failed to close database", closeErr)
				}
			}
		}
	}

	if s.Cache.Lookup != nil {
		s.Cache.Lookup.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

// FlushAllCaches empties the lookup cache database. It is a no-op when no
// cache is configured.
func (s *DB) FlushAllCaches() error {
	log := logger.New("database").Function("FlushAllCaches")

	if s.Cache.Lookup == nil {
		log.Info("No cache configured, nothing to flush")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := s.Cache.Lookup
	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		return log.Err("Failed to flush cache database", err, "cache", "Lookup")
	}

	log.Info("Successfully flushed cache database", "cache", "Lookup")
	return nil
}
