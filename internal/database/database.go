package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estante/internal/config"
	"estante/internal/entities"
)

const (
	connectAttempts    = 5
	connectBackoffBase = 500 * time.Millisecond
	connectBackoffCap  = 4 * time.Second
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured relational backend, retrying the initial
// connection with capped exponential backoff, then migrates the schema and
// seeds the singleton settings row.
func NewDatabase(ctx context.Context, cfg config.Database) (*Database, error) {
	db, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Author{},
		&entities.Series{},
		&entities.Book{},
		&entities.Favorite{},
		&entities.ReadingHistory{},
		&entities.Comment{},
		&entities.SiteSettings{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedSettings(); err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}

	log.Printf("Database initialized (%s)", cfg.Driver)

	return database, nil
}

func connect(ctx context.Context, cfg config.Database) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithCappedDuration(connectBackoffCap, retry.NewExponential(connectBackoffBase))
	backoff = retry.WithMaxRetries(connectAttempts-1, backoff)

	var db *gorm.DB
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var openErr error
		db, openErr = gorm.Open(dialector, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
			// Driver unique-violation errors surface as gorm.ErrDuplicatedKey
			// so repositories can map them to ErrConflict.
			TranslateError: true,
		})
		if openErr != nil {
			log.Printf("Database connection failed, will retry: %v", openErr)
			return retry.RetryableError(openErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, err)
	}

	return db, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.Path), nil
	case config.DriverPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("postgres driver requires DATABASE_URL")
		}
		return postgres.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the backend is reachable. Used by the health endpoint and
// the background probe.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) seedSettings() error {
	var settings entities.SiteSettings
	result := d.DB.First(&settings)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		settings = entities.DefaultSiteSettings()
		if err := d.DB.Create(&settings).Error; err != nil {
			return err
		}
		log.Printf("Created default site settings")
		return nil
	}
	return result.Error
}
