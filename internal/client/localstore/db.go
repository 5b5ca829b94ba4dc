package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

type recordRow struct {
	Collection string    `gorm:"primaryKey;size:64"`
	Key        string    `gorm:"primaryKey;size:128;column:record_key"`
	Data       string    `gorm:"type:text;not null"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
}

func (recordRow) TableName() string {
	return "records"
}

// DBBackend keeps records in an embedded SQLite database.
type DBBackend struct {
	db   *gorm.DB
	path string
}

// OpenDB opens or creates the cache database at path. The same database
// also holds the sync run history.
func OpenDB(path string) (*DBBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.AutoMigrate(&recordRow{}, &entities.SyncRun{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &DBBackend{db: db, path: path}, nil
}

// DB exposes the connection for the sync run repository.
func (b *DBBackend) DB() *gorm.DB {
	return b.db
}

func (b *DBBackend) Describe() (string, string) {
	return KindDatabase, b.path
}

func (b *DBBackend) GetAll(ctx context.Context, collection string) ([]Record, error) {
	var rows []recordRow
	err := b.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("record_key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (b *DBBackend) Get(ctx context.Context, collection, id string) (Record, error) {
	var row recordRow
	err := b.db.WithContext(ctx).
		Where("collection = ? AND record_key = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, entities.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}
	return row.record(), nil
}

func (b *DBBackend) Set(ctx context.Context, rec Record) error {
	if err := validRecord(rec); err != nil {
		return err
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	row := recordRow{
		Collection: rec.Collection,
		Key:        rec.ID,
		Data:       string(rec.Data),
		UpdatedAt:  rec.UpdatedAt,
	}
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", rec.Collection, rec.ID, err)
	}
	return nil
}

func (b *DBBackend) Delete(ctx context.Context, collection, id string) error {
	result := b.db.WithContext(ctx).
		Where("collection = ? AND record_key = ?", collection, id).
		Delete(&recordRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (b *DBBackend) Clear(ctx context.Context, collection string) error {
	err := b.db.WithContext(ctx).
		Where("collection = ?", collection).
		Delete(&recordRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", collection, err)
	}
	return nil
}

func (b *DBBackend) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := b.db.WithContext(ctx).
		Model(&recordRow{}).
		Distinct("collection").
		Order("collection ASC").
		Pluck("collection", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

func (b *DBBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r recordRow) record() Record {
	return Record{
		Collection: r.Collection,
		ID:         r.Key,
		Data:       []byte(r.Data),
		UpdatedAt:  r.UpdatedAt,
	}
}
