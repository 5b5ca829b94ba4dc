package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// Models lists every entity managed by the API server schema.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.UserSettings{},
		&entities.StudySession{},
		&entities.Note{},
		&entities.Book{},
		&entities.FocusTimer{},
		&entities.StudyStat{},
	}
}

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// Dialector selects the gorm driver for the configured database.
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite database path is not set")
		}
		return sqlite.Open(cfg.Path), nil
	case config.DatabaseDriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres requires DATABASE_DSN")
		}
		return postgres.Open(cfg.DSN), nil
	case config.DatabaseDriverMySQL:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("mysql requires DATABASE_DSN")
		}
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func NewDatabase(cfg config.Database) (*Database, error) {
	return open(cfg, logger.Default.LogMode(logger.Info))
}

// NewSQLiteDatabase opens a quiet SQLite database, used by tests and tools.
func NewSQLiteDatabase(path string) (*Database, error) {
	return open(config.Database{Driver: config.DatabaseDriverSQLite, Path: path}, logger.Default.LogMode(logger.Silent))
}

func open(cfg config.Database, gormLogger logger.Interface) (*Database, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DatabaseDriverSQLite
	}

	log.Printf("Database initialized successfully (driver: %s)", driver)

	return &Database{DB: db, Driver: driver}, nil
}

// Ping checks that the underlying connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
