package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sitecms/internal/model"
)

// Option configures Open.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger routes SQL errors and slow queries to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// Open returns a connected GORM DB for driver ("mysql", "postgres" or "sqlite").
func Open(driver, dsn string, opts ...Option) (*gorm.DB, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var dialector gorm.Dialector
	switch driver {
	case "mysql", "":
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewLogger(o.log)})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if _, ok := dialector.(*sqlite.Dialector); ok {
		// SQLite allows a single writer; concurrent writers get SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.ProductCategory{},
		&model.Product{},
		&model.Case{},
		&model.News{},
		&model.Document{},
		&model.Message{},
		&model.Gallery{},
		&model.HeroSlide{},
		&model.SiteInfo{},
		&model.SiteMeta{},
	}
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, children first.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
