package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the settings for opening the embedded database.
type Config struct {
	Path          string
	BusyTimeoutMS int
	CacheSizeKB   int
}

// DB wraps the gorm connection to the embedded SQLite database.
type DB struct {
	DB *gorm.DB
}

// NewDB opens the database in WAL mode so API readers are never blocked by
// the scheduler's writes. The scheduler process is the only writer.
func NewDB(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}
	if cfg.BusyTimeoutMS <= 0 {
		cfg.BusyTimeoutMS = 60000
	}

	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_busy_timeout=%d&_foreign_keys=on&_synchronous=NORMAL",
		cfg.Path, cfg.BusyTimeoutMS,
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", cfg.Path, err)
	}

	db.Exec("PRAGMA temp_store=MEMORY")
	if cfg.CacheSizeKB > 0 {
		db.Exec(fmt.Sprintf("PRAGMA cache_size=-%d", cfg.CacheSizeKB))
	}

	return &DB{DB: db}, nil
}

// Optimize reclaims free pages, refreshes planner statistics and checkpoints
// the WAL. Safe to run while readers are connected.
func (d *DB) Optimize(ctx context.Context) error {
	statements := []string{
		"PRAGMA incremental_vacuum",
		"ANALYZE",
		"PRAGMA optimize",
		"PRAGMA wal_checkpoint(TRUNCATE)",
	}
	for _, stmt := range statements {
		if err := d.DB.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("optimize statement %q failed: %w", stmt, err)
		}
	}
	return nil
}
