package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/directory"
	"github.com/quorial/idgate/pkg/model"
)

// Ensure TenantDirectory implements directory.TenantDirectory
var _ directory.TenantDirectory = (*TenantDirectory)(nil)

// TenantDirectory implements directory.TenantDirectory using GORM
type TenantDirectory struct {
	db *gorm.DB
}

// NewTenantDirectory creates a new TenantDirectory
func NewTenantDirectory(db *gorm.DB) *TenantDirectory {
	return &TenantDirectory{db: db}
}

// TenantID returns the numeric id of the tenant with the given domain
func (d *TenantDirectory) TenantID(ctx context.Context, domain string) (int64, error) {
	var tenant model.Tenant
	tx := d.db.WithContext(ctx).Where("domain = ?", domain).First(&tenant)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return 0, directory.ErrTenantNotFound
		}
		return 0, tx.Error
	}
	return tenant.ID, nil
}

// CreateTenant registers a tenant
func (d *TenantDirectory) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	return d.db.WithContext(ctx).Create(tenant).Error
}

// ListTenants returns all registered tenants
func (d *TenantDirectory) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	tx := d.db.WithContext(ctx).Order("id").Find(&tenants)
	return tenants, tx.Error
}
