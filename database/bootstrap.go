package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cropcal/entities"
)

// OpenSQLite opens the store and brings the schema up to date.
func OpenSQLite(path string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// one writer at a time; per-plot locks already serialize the hot paths
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&entities.Plot{},
		&entities.ScheduledEvent{},
		&entities.InjectionRecord{},
		&entities.Observation{},
		&entities.AdvisoryDocument{},
		&entities.AdjustmentLog{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	created, err := ensureEventIndex(db)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if created {
		log.Info("created event lookup index", zap.String("index", eventIndex))
	}
	log.Info("database ready", zap.String("path", path))
	return db, nil
}

const eventIndex = "idx_events_plot_status_date"

// ensureEventIndex adds the composite index used by upcoming and status
// queries when an older database lacks it.
func ensureEventIndex(db *gorm.DB) (bool, error) {
	var name string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, eventIndex).Scan(&name).Error; err != nil {
		return false, fmt.Errorf("check index exist: %w", err)
	}
	if name != "" {
		return false, nil
	}
	err := db.Exec(`CREATE INDEX ` + eventIndex + ` ON scheduled_events (plot_id, status, scheduled_date)`).Error
	return err == nil, err
}
