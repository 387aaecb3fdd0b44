// Package seed populates a database at startup from application supplied
// seeders and factories.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	infralogger "github.com/kart-io/launchpad/pkg/infra/logger"
	"github.com/kart-io/launchpad/pkg/infra/txcontext"
)

// ErrUnknownFactory is returned when a seeder asks for an unregistered
// factory.
var ErrUnknownFactory = errors.New("unknown factory")

// ErrSeederPanic wraps a panic raised by a seeder.
var ErrSeederPanic = errors.New("seeder panicked")

// Seeder writes one coherent set of rows.
type Seeder interface {
	Name() string
	Run(ctx context.Context, tx *gorm.DB, factories *Factories) error
}

type seederFunc struct {
	name string
	fn   func(ctx context.Context, tx *gorm.DB, factories *Factories) error
}

func (s seederFunc) Name() string { return s.name }

func (s seederFunc) Run(ctx context.Context, tx *gorm.DB, factories *Factories) error {
	return s.fn(ctx, tx, factories)
}

// NewSeeder adapts fn into a Seeder called name.
func NewSeeder(name string, fn func(ctx context.Context, tx *gorm.DB, factories *Factories) error) Seeder {
	return seederFunc{name: name, fn: fn}
}

// Run executes seeders in order, each in its own transaction. It stops at
// the first failure. With no seeders or no database it logs a warning and
// does nothing.
func Run(ctx context.Context, db *gorm.DB, seeders []Seeder, factories []Factory) error {
	log := infralogger.GetLogger(ctx)

	if len(seeders) == 0 {
		log.Warn("No seeders found. Provide seeders if database seeding is expected.")
		return nil
	}
	if db == nil {
		log.Warn("Seeding is enabled but no data source is configured. Review the database section or disable run-seeds.")
		return nil
	}

	registry, err := NewFactories(factories...)
	if err != nil {
		return err
	}

	tc := txcontext.Initialize()
	start := time.Now()
	for _, s := range seeders {
		name := s.Name()
		log.Infow("Running seeder", "seeder", name)
		if err := runSeeder(ctx, tc, db, s, registry); err != nil {
			return fmt.Errorf("seeder %q: %w", name, err)
		}
	}
	log.Infow("Seeding completed",
		"seeders", len(seeders),
		"duration", time.Since(start).String(),
	)
	return nil
}

// runSeeder runs s in a transaction. A panic rolls the transaction back and
// is returned as an error.
func runSeeder(ctx context.Context, tc *txcontext.Context, db *gorm.DB, s Seeder, registry *Factories) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSeederPanic, r)
		}
	}()
	return tc.Transaction(ctx, db, func(ctx context.Context, tx *gorm.DB) error {
		return s.Run(ctx, tx, registry)
	})
}
