// Package seeder provides the master service's seed data.
package seeder

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kart-io/launchpad/internal/master/model"
	"github.com/kart-io/launchpad/pkg/infra/seed"
)

const (
	// TenantFactory names the tenant factory.
	TenantFactory = "tenant"

	// MetaOwnerID is the meta key assigning an owner to made tenants.
	MetaOwnerID = "ownerId"

	// SystemOwner owns the tenants seeded at startup.
	SystemOwner = "system"

	// DefaultTenantCount is how many tenants the tenant seeder inserts.
	DefaultTenantCount = 3
)

// NewTenantFactory makes active tenants with random ids. The owner comes
// from meta["ownerId"] and is empty otherwise.
func NewTenantFactory() seed.Factory {
	return seed.NewFactory(TenantFactory, func(meta seed.Meta) (interface{}, error) {
		id := uuid.NewString()
		short := strings.SplitN(id, "-", 2)[0]
		return &model.Tenant{
			TenantID:                 id,
			TenantName:               fmt.Sprintf("Tenant %s", strings.ToUpper(short)),
			TenantStatus:             model.TenantStatusActive,
			TenantFriendlyIdentifier: "tenant-" + short,
			OwnerID:                  meta.String(MetaOwnerID),
		}, nil
	})
}

// NewTenantSeeder inserts count tenants owned by SystemOwner. A count below
// one uses DefaultTenantCount.
func NewTenantSeeder(count int) seed.Seeder {
	if count < 1 {
		count = DefaultTenantCount
	}
	return seed.NewSeeder("tenants", func(ctx context.Context, tx *gorm.DB, factories *seed.Factories) error {
		_, err := factories.SaveMany(ctx, tx, TenantFactory, count, seed.Meta{MetaOwnerID: SystemOwner})
		return err
	})
}
