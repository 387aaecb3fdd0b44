// Package database defines the optional database section. Its absence
// disables seeding.
package database

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/launchpad/pkg/options"
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	// DriverSQLite is the pure-Go sqlite driver.
	DriverSQLite = "sqlite"
	// DriverSQLite3 is the cgo sqlite driver.
	DriverSQLite3 = "sqlite3"
)

// Options is the database section.
type Options struct {
	// RunSeeds runs the registered seeders during bootstrap.
	RunSeeds bool `json:"run-seeds" mapstructure:"run-seeds"`

	Driver                string        `json:"driver" mapstructure:"driver"`
	DSN                   string        `json:"dsn" mapstructure:"dsn"`
	MaxIdleConnections    int           `json:"max-idle-connections" mapstructure:"max-idle-connections"`
	MaxOpenConnections    int           `json:"max-open-connections" mapstructure:"max-open-connections"`
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`
	// LogLevel maps to gorm's logger levels: 1 silent, 2 error, 3 warn, 4 info.
	LogLevel int `json:"log-level" mapstructure:"log-level"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Driver:                DriverSQLite,
		DSN:                   "file::memory:?cache=shared",
		MaxIdleConnections:    10,
		MaxOpenConnections:    100,
		MaxConnectionLifeTime: 10 * time.Second,
		LogLevel:              1,
	}
}

// AddFlags adds flags for the database section.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	prefix := options.Join(prefixes...) + "database."
	fs.BoolVar(&o.RunSeeds, prefix+"run-seeds", o.RunSeeds, "Run registered seeders at startup.")
	fs.StringVar(&o.Driver, prefix+"driver", o.Driver, "Database driver (mysql|postgres|sqlite|sqlite3).")
	fs.StringVar(&o.DSN, prefix+"dsn", o.DSN, "Database DSN.")
	fs.IntVar(&o.MaxIdleConnections, prefix+"max-idle-connections", o.MaxIdleConnections, "Max idle connections.")
	fs.IntVar(&o.MaxOpenConnections, prefix+"max-open-connections", o.MaxOpenConnections, "Max open connections.")
	fs.DurationVar(&o.MaxConnectionLifeTime, prefix+"max-connection-life-time", o.MaxConnectionLifeTime, "Max connection life time.")
	fs.IntVar(&o.LogLevel, prefix+"log-level", o.LogLevel, "GORM log level (1-4).")
}

// Validate validates the database section.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	switch o.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverSQLite3:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", o.Driver))
	}
	if o.DSN == "" {
		errs = append(errs, fmt.Errorf("database dsn is required"))
	}
	if o.LogLevel < 1 || o.LogLevel > 4 {
		errs = append(errs, fmt.Errorf("database log-level must be between 1 and 4"))
	}
	return errs
}

var _ options.IOptions = (*Options)(nil)
