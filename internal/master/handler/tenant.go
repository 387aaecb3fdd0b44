// Package handler serves the master service's HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/kart-io/launchpad/internal/master/model"
	"github.com/kart-io/launchpad/internal/master/store"
	"github.com/kart-io/launchpad/pkg/infra/interceptor"
	"github.com/kart-io/launchpad/pkg/infra/pool"
	"github.com/kart-io/launchpad/pkg/security/authz/roles"
	"github.com/kart-io/launchpad/pkg/utils/errors"
)

// TenantHandler handles tenant requests.
type TenantHandler struct {
	store      *store.TenantStore
	background *pool.Pool
}

// NewTenantHandler creates a TenantHandler. background may be nil, in which
// case post-create work runs inline.
func NewTenantHandler(s *store.TenantStore, background *pool.Pool) *TenantHandler {
	return &TenantHandler{store: s, background: background}
}

// CreateTenantRequest is the request body for creating a tenant.
type CreateTenantRequest struct {
	TenantName               string `json:"tenantName" binding:"required,min=2,max=128"`
	TenantFriendlyIdentifier string `json:"tenantFriendlyIdentifier" binding:"omitempty,max=128"`
	OwnerID                  string `json:"ownerId" binding:"omitempty,max=64"`
}

// UpdateStatusRequest is the request body for changing a tenant's status.
type UpdateStatusRequest struct {
	Status model.TenantStatus `json:"status" binding:"required,oneof=ACTIVE SUSPENDED"`
}

// ListTenantsQuery holds the list query parameters.
type ListTenantsQuery struct {
	OwnerID string `form:"ownerId" binding:"omitempty,max=64"`
	Offset  int    `form:"offset" binding:"gte=0"`
	Limit   int    `form:"limit" binding:"gte=0,lte=100"`
}

// ListTenantsResponse is one page of tenants.
type ListTenantsResponse struct {
	Total int64           `json:"total"`
	Items []*model.Tenant `json:"items"`
}

// Create handles tenant creation. Without an explicit owner the caller's
// token subject owns the tenant.
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if !interceptor.BindJSON(c, &req) {
		return
	}

	tenant := &model.Tenant{
		TenantID:                 uuid.NewString(),
		TenantName:               req.TenantName,
		TenantFriendlyIdentifier: req.TenantFriendlyIdentifier,
		OwnerID:                  req.OwnerID,
		TenantStatus:             model.TenantStatusActive,
	}
	if tenant.TenantFriendlyIdentifier == "" {
		tenant.TenantFriendlyIdentifier = tenant.TenantID
	}
	if tenant.OwnerID == "" {
		if payload, ok := roles.CurrentUser[model.RoleType](c); ok {
			tenant.OwnerID = payload.Subject
		}
	}

	if err := h.store.Create(c.Request.Context(), tenant); err != nil {
		_ = c.Error(err)
		return
	}

	h.announce(tenant)
	interceptor.Respond(c, http.StatusCreated, tenant)
}

// Get returns a single tenant.
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.store.Get(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	interceptor.OK(c, tenant)
}

// List returns a page of tenants.
func (h *TenantHandler) List(c *gin.Context) {
	var q ListTenantsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(errors.ErrInvalidParam.WithCause(err))
		return
	}

	total, items, err := h.store.List(c.Request.Context(), q.OwnerID, q.Offset, q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	interceptor.OK(c, &ListTenantsResponse{Total: total, Items: items})
}

// UpdateStatus suspends or reactivates a tenant.
func (h *TenantHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !interceptor.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	tenantID := c.Param("tenantId")
	if err := h.store.UpdateStatus(ctx, tenantID, req.Status); err != nil {
		_ = c.Error(err)
		return
	}

	tenant, err := h.store.Get(ctx, tenantID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	interceptor.OK(c, tenant)
}

// Me returns the caller's token payload.
func Me(c *gin.Context) {
	payload, ok := roles.CurrentUser[model.RoleType](c)
	if !ok {
		_ = c.Error(errors.ErrUnauthorized)
		return
	}
	interceptor.OK(c, payload)
}

// announce logs the new tenant off the request path.
func (h *TenantHandler) announce(tenant *model.Tenant) {
	id, owner := tenant.TenantID, tenant.OwnerID
	task := func() {
		logger.Infow("Tenant provisioned", "tenant_id", id, "owner_id", owner)
	}
	if h.background == nil {
		task()
		return
	}
	if err := h.background.Submit(task); err != nil {
		logger.Warnw("Failed to schedule tenant provisioning", "tenant_id", id, "error", err.Error())
	}
}
