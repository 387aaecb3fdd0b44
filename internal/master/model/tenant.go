// Package model holds the master service's persistent types.
package model

import (
	"time"

	"gorm.io/gorm"
)

// TenantStatus is the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// Tenant is an isolated customer account owned by a single user.
type Tenant struct {
	ID                       uint64         `json:"-" gorm:"primaryKey;autoIncrement"`
	TenantID                 string         `json:"tenantId" gorm:"size:36;not null;uniqueIndex:uk_tenant_id"`
	TenantName               string         `json:"tenantName" gorm:"size:128;not null"`
	TenantStatus             TenantStatus   `json:"tenantStatus" gorm:"size:16;not null;index:idx_tenant_status"`
	TenantFriendlyIdentifier string         `json:"tenantFriendlyIdentifier" gorm:"size:128;uniqueIndex:uk_friendly_identifier"`
	OwnerID                  string         `json:"ownerId" gorm:"size:64;index:idx_owner_id"`
	Version                  int            `json:"version" gorm:"not null;default:1"`
	CreatedAt                int64          `json:"createdAt" gorm:"autoCreateTime:milli"`
	UpdatedAt                int64          `json:"updatedAt" gorm:"autoUpdateTime:milli"`
	DeletedAt                gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for GORM.
func (t *Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate fills the status and timestamps of a new tenant.
func (t *Tenant) BeforeCreate(tx *gorm.DB) (err error) {
	if t.TenantStatus == "" {
		t.TenantStatus = TenantStatusActive
	}
	if t.Version == 0 {
		t.Version = 1
	}
	now := time.Now().UnixMilli()
	t.CreatedAt = now
	t.UpdatedAt = now
	return
}

// IsActive reports whether the tenant accepts traffic.
func (t *Tenant) IsActive() bool {
	return t.TenantStatus == TenantStatusActive
}
