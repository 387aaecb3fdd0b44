// Package store is the tenant data access layer.
package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/launchpad/internal/master/model"
	"github.com/kart-io/launchpad/pkg/infra/datasource"
	"github.com/kart-io/launchpad/pkg/infra/txcontext"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 20

// TenantStore persists tenants. Calls made inside a transactional context
// join the active transaction.
type TenantStore struct {
	db *gorm.DB
}

// NewTenantStore creates a tenant store on db.
func NewTenantStore(db *gorm.DB) *TenantStore {
	return &TenantStore{db: db}
}

// Migrate creates or updates the tenants table.
func (s *TenantStore) Migrate(ctx context.Context) error {
	return s.conn(ctx).AutoMigrate(&model.Tenant{})
}

// Create inserts tenant.
func (s *TenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	if err := s.conn(ctx).Create(tenant).Error; err != nil {
		return datasource.WrapQuery("create tenant", err)
	}
	return nil
}

// Get returns the tenant with the given public id.
func (s *TenantStore) Get(ctx context.Context, tenantID string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := s.conn(ctx).Where("tenant_id = ?", tenantID).First(&tenant).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound.WithMessages("tenant not found", "租户不存在")
		}
		return nil, datasource.WrapQuery("get tenant", err)
	}
	return &tenant, nil
}

// List returns one page of tenants, filtered by owner when ownerID is set,
// and the total count matching the filter.
func (s *TenantStore) List(ctx context.Context, ownerID string, offset, limit int) (int64, []*model.Tenant, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	db := s.conn(ctx).Model(&model.Tenant{})
	if ownerID != "" {
		db = db.Where("owner_id = ?", ownerID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, nil, datasource.WrapQuery("count tenants", err)
	}

	var tenants []*model.Tenant
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&tenants).Error; err != nil {
		return 0, nil, datasource.WrapQuery("list tenants", err)
	}
	return count, tenants, nil
}

// UpdateStatus moves a tenant to status and bumps its version.
func (s *TenantStore) UpdateStatus(ctx context.Context, tenantID string, status model.TenantStatus) error {
	result := s.conn(ctx).Model(&model.Tenant{}).
		Where("tenant_id = ?", tenantID).
		Updates(map[string]interface{}{
			"tenant_status": status,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return datasource.WrapQuery("update tenant status", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessages("tenant not found", "租户不存在")
	}
	return nil
}

func (s *TenantStore) conn(ctx context.Context) *gorm.DB {
	return txcontext.Current().DB(ctx, s.db).WithContext(ctx)
}
