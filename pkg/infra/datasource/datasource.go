// Package datasource opens the gorm database described by the database
// section.
package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	cgosqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/launchpad/pkg/options/database"
)

// Resolver returns the database seeding runs against. It may return a nil
// DB when none is configured.
type Resolver func(ctx context.Context) (*gorm.DB, error)

// Open connects to the configured database, applies the pool settings and
// pings it.
func Open(ctx context.Context, opts *database.Options) (*gorm.DB, error) {
	if opts == nil {
		return nil, fmt.Errorf("database options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid database options: %w", errs[0])
	}

	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logLevel(opts.LogLevel), 200*time.Millisecond, true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if opts.MaxIdleConnections > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConnections)
	}
	if opts.MaxOpenConnections > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConnections)
	}
	if opts.MaxConnectionLifeTime > 0 {
		sqlDB.SetConnMaxLifetime(opts.MaxConnectionLifeTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", opts.Driver, err)
	}
	return db, nil
}

// Lazy opens a database on first use and remembers the outcome.
type Lazy struct {
	opts *database.Options

	mu     sync.Mutex
	opened bool
	db     *gorm.DB
	err    error
}

// NewLazy returns a Lazy for opts.
func NewLazy(opts *database.Options) *Lazy {
	return &Lazy{opts: opts}
}

// Resolve opens the database once. Later calls return the same result.
func (l *Lazy) Resolve(ctx context.Context) (*gorm.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.opened {
		l.db, l.err = Open(ctx, l.opts)
		l.opened = true
	}
	return l.db, l.err
}

// Close closes the database if Resolve opened it.
func (l *Lazy) Close(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := Close(l.db)
	l.db = nil
	return err
}

// OpenResolver returns a Resolver that opens opts once and caches the result.
func OpenResolver(opts *database.Options) Resolver {
	return NewLazy(opts).Resolve
}

// Close closes the connection pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case database.DriverMySQL:
		return mysql.Open(dsn), nil
	case database.DriverPostgres:
		return postgres.Open(dsn), nil
	case database.DriverSQLite:
		return sqlite.Open(dsn), nil
	case database.DriverSQLite3:
		return cgosqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func logLevel(level int) gormlogger.LogLevel {
	switch level {
	case 2:
		return gormlogger.Error
	case 3:
		return gormlogger.Warn
	case 4:
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}
