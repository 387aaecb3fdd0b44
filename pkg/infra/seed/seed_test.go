package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/kart-io/logger/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kart-io/launchpad/pkg/infra/logger/logtest"
)

type account struct {
	ID    uint
	Owner string
	Name  string
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&account{}))
	return db
}

func accountFactory() Factory {
	n := 0
	return NewFactory("account", func(meta Meta) (interface{}, error) {
		n++
		return &account{Owner: meta.String("owner"), Name: fmt.Sprintf("account-%d", n)}, nil
	})
}

func names(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var out []string
	require.NoError(t, db.Model(&account{}).Order("id").Pluck("name", &out).Error)
	return out
}

func TestRun_SequentialSeeders(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	db := setupDB(t)

	var order []string
	seeders := []Seeder{
		NewSeeder("first", func(ctx context.Context, tx *gorm.DB, f *Factories) error {
			order = append(order, "first")
			_, err := f.SaveMany(ctx, tx, "account", 2, Meta{"owner": "u1"})
			return err
		}),
		NewSeeder("second", func(ctx context.Context, tx *gorm.DB, f *Factories) error {
			order = append(order, "second")
			_, err := f.SaveMany(ctx, tx, "account", 1, nil)
			return err
		}),
	}

	require.NoError(t, Run(context.Background(), db, seeders, []Factory{accountFactory()}))

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, []string{"account-1", "account-2", "account-3"}, names(t, db))

	var owned int64
	require.NoError(t, db.Model(&account{}).Where("owner = ?", "u1").Count(&owned).Error)
	assert.EqualValues(t, 2, owned)
	assert.Len(t, rec.Find("Running seeder"), 2)
	assert.True(t, rec.Has(core.InfoLevel, "Seeding completed"))
}

func TestRun_FailureRollsBackAndStops(t *testing.T) {
	logtest.InstallGlobal(t)
	db := setupDB(t)
	boom := errors.New("boom")
	ranThird := false

	seeders := []Seeder{
		NewSeeder("kept", func(ctx context.Context, tx *gorm.DB, f *Factories) error {
			_, err := f.SaveMany(ctx, tx, "account", 1, nil)
			return err
		}),
		NewSeeder("broken", func(ctx context.Context, tx *gorm.DB, f *Factories) error {
			if _, err := f.SaveMany(ctx, tx, "account", 1, nil); err != nil {
				return err
			}
			return boom
		}),
		NewSeeder("never", func(context.Context, *gorm.DB, *Factories) error {
			ranThird = true
			return nil
		}),
	}

	err := Run(context.Background(), db, seeders, []Factory{accountFactory()})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `seeder "broken"`)
	assert.False(t, ranThird)
	assert.Equal(t, []string{"account-1"}, names(t, db))
}

func TestRun_PanicRollsBackAndStops(t *testing.T) {
	logtest.InstallGlobal(t)
	db := setupDB(t)
	ranNext := false

	seeders := []Seeder{
		NewSeeder("panicky", func(ctx context.Context, tx *gorm.DB, f *Factories) error {
			if _, err := f.SaveMany(ctx, tx, "account", 1, nil); err != nil {
				return err
			}
			var meta Meta
			meta["owner"] = "nobody"
			return nil
		}),
		NewSeeder("never", func(context.Context, *gorm.DB, *Factories) error {
			ranNext = true
			return nil
		}),
	}

	var err error
	require.NotPanics(t, func() {
		err = Run(context.Background(), db, seeders, []Factory{accountFactory()})
	})
	require.ErrorIs(t, err, ErrSeederPanic)
	assert.Contains(t, err.Error(), `seeder "panicky"`)
	assert.Contains(t, err.Error(), "nil map")
	assert.False(t, ranNext)
	assert.Empty(t, names(t, db))
}

func TestRun_NoSeeders(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), db, nil, []Factory{accountFactory()}))

	assert.True(t, rec.Has(core.WarnLevel, "No seeders found"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_NoDataSource(t *testing.T) {
	rec := logtest.InstallGlobal(t)
	called := false
	seeders := []Seeder{NewSeeder("s", func(context.Context, *gorm.DB, *Factories) error {
		called = true
		return nil
	})}

	require.NoError(t, Run(context.Background(), nil, seeders, nil))
	assert.False(t, called)
	assert.True(t, rec.Has(core.WarnLevel, "no data source is configured"))
}

func TestFactories(t *testing.T) {
	f, err := NewFactories(accountFactory(), nil, NewFactory("other", func(Meta) (interface{}, error) {
		return nil, errors.New("cannot build")
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "other"}, f.Names())

	v, err := f.Make("account", Meta{"owner": "o"})
	require.NoError(t, err)
	assert.Equal(t, "o", v.(*account).Owner)

	_, err = f.Make("missing", nil)
	assert.ErrorIs(t, err, ErrUnknownFactory)

	_, err = f.Make("other", nil)
	assert.ErrorContains(t, err, `factory "other": cannot build`)

	_, err = NewFactories(accountFactory(), accountFactory())
	assert.ErrorContains(t, err, `duplicate factory "account"`)
}
