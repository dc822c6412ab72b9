package database

import (
	"database/sql"
	"sync"
	"time"

	"villfinder-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/qustavo/sqlhooks/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const hookedDriverName = "pgxWithHooks"

var registerOnce sync.Once

// Open opens a GORM DB from a Postgres DSN. Connections go through a sqlhooks wrapped pgx driver
// so statements slower than slowThreshold are reported.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05 behind poolers (PgBouncer).
func Open(dsn string, slowThreshold time.Duration) (*gorm.DB, error) {
	registerOnce.Do(func() {
		sql.Register(hookedDriverName, sqlhooks.Wrap(&stdlib.Driver{}, &Hooks{Threshold: slowThreshold}))
	})
	sqlDB, err := sql.Open(hookedDriverName, dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// OpenSQLite opens a local SQLite database file, used by villctl for development data.
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// AutoMigrate creates or updates every table the service reads.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// Pinger adapts a *gorm.DB to the health check DBPinger.
type Pinger struct {
	DB *gorm.DB
}

func (p *Pinger) Ping() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
