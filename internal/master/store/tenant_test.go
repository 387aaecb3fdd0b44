package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kart-io/launchpad/internal/master/model"
	"github.com/kart-io/launchpad/pkg/infra/txcontext"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

func setupStore(t *testing.T) *TenantStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := NewTenantStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newTenant(id, owner string) *model.Tenant {
	return &model.Tenant{
		TenantID:                 id,
		TenantName:               "Tenant " + id,
		TenantFriendlyIdentifier: "tenant-" + id,
		OwnerID:                  owner,
	}
}

func TestTenantStore_CreateAndGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tenant := newTenant("t-1", "owner-1")
	require.NoError(t, s.Create(ctx, tenant))
	assert.Equal(t, model.TenantStatusActive, tenant.TenantStatus)
	assert.Equal(t, 1, tenant.Version)
	assert.NotZero(t, tenant.CreatedAt)

	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.True(t, got.IsActive())
}

func TestTenantStore_GetMissing(t *testing.T) {
	s := setupStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound.Code))
}

func TestTenantStore_List(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		owner := "owner-a"
		if i%2 == 1 {
			owner = "owner-b"
		}
		require.NoError(t, s.Create(ctx, newTenant(fmt.Sprintf("t-%d", i), owner)))
	}

	total, items, err := s.List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 5)

	total, items, err = s.List(ctx, "owner-a", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "t-2", items[0].TenantID)
}

func TestTenantStore_UpdateStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTenant("t-1", "")))

	require.NoError(t, s.UpdateStatus(ctx, "t-1", model.TenantStatusSuspended))
	got, err := s.Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, model.TenantStatusSuspended, got.TenantStatus)
	assert.Equal(t, 2, got.Version)
	assert.False(t, got.IsActive())

	err = s.UpdateStatus(ctx, "missing", model.TenantStatusActive)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound.Code))
}

func TestTenantStore_JoinsTransaction(t *testing.T) {
	s := setupStore(t)
	tx := txcontext.Initialize()
	boom := stderrors.New("boom")

	err := tx.Transaction(context.Background(), s.db, func(ctx context.Context, _ *gorm.DB) error {
		require.NoError(t, s.Create(ctx, newTenant("t-1", "")))
		_, err := s.Get(ctx, "t-1")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Get(context.Background(), "t-1")
	assert.True(t, errors.IsCode(err, errors.ErrNotFound.Code))
}
