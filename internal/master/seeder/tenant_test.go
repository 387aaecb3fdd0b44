package seeder

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kart-io/launchpad/internal/master/model"
	"github.com/kart-io/launchpad/pkg/infra/logger/logtest"
	"github.com/kart-io/launchpad/pkg/infra/seed"
)

func TestTenantFactory(t *testing.T) {
	f := NewTenantFactory()
	assert.Equal(t, TenantFactory, f.Name())

	v, err := f.Make(seed.Meta{MetaOwnerID: "owner-7"})
	require.NoError(t, err)
	tenant, ok := v.(*model.Tenant)
	require.True(t, ok)
	assert.Len(t, tenant.TenantID, 36)
	assert.Equal(t, model.TenantStatusActive, tenant.TenantStatus)
	assert.Equal(t, "owner-7", tenant.OwnerID)
	assert.NotEmpty(t, tenant.TenantName)
	assert.NotEmpty(t, tenant.TenantFriendlyIdentifier)

	v, err = f.Make(nil)
	require.NoError(t, err)
	other := v.(*model.Tenant)
	assert.Empty(t, other.OwnerID)
	assert.NotEqual(t, tenant.TenantID, other.TenantID)
}

func TestTenantSeeder(t *testing.T) {
	logtest.InstallGlobal(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Tenant{}))

	err = seed.Run(context.Background(), db,
		[]seed.Seeder{NewTenantSeeder(0)},
		[]seed.Factory{NewTenantFactory()},
	)
	require.NoError(t, err)

	var tenants []model.Tenant
	require.NoError(t, db.Find(&tenants).Error)
	require.Len(t, tenants, DefaultTenantCount)
	for _, tenant := range tenants {
		assert.Equal(t, SystemOwner, tenant.OwnerID)
		assert.True(t, tenant.IsActive())
	}
}
