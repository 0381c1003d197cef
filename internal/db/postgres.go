package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"vehicle-auction/inventory/internal/config"
)

// sqliteDriverName is the database/sql name registered by gorm's sqlite driver
const sqliteDriverName = "sqlite3"

// ConnectPostgres opens a sqlx pool over lib/pq, retrying while the server starts
func ConnectPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres: %w", err)
}

// OpenSQLX returns a sqlx handle for hand-written queries. Postgres gets its
// own lib/pq pool; sqlite shares the gorm connection so in-memory databases
// see the same tables.
func OpenSQLX(cfg config.StoreConfig, gormDB *gorm.DB) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		return ConnectPostgres(cfg.PostgresDSN)
	case config.StoreDriverSQLite:
		return WrapGorm(gormDB, sqliteDriverName)
	default:
		return nil, fmt.Errorf("store driver %q has no SQL dialect", cfg.Driver)
	}
}

// WrapGorm exposes gorm's pool through sqlx. driverName selects the bind style.
func WrapGorm(gormDB *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}
