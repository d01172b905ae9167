package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/directory"
	"github.com/quorial/idgate/pkg/model"
)

// Ensure OrganizationDirectory implements directory.OrganizationDirectory
var _ directory.OrganizationDirectory = (*OrganizationDirectory)(nil)

// OrganizationDirectory implements directory.OrganizationDirectory using GORM
type OrganizationDirectory struct {
	db *gorm.DB
}

// NewOrganizationDirectory creates a new OrganizationDirectory
func NewOrganizationDirectory(db *gorm.DB) *OrganizationDirectory {
	return &OrganizationDirectory{db: db}
}

// ResolveTenantDomain returns the domain of the tenant owning an organization
func (d *OrganizationDirectory) ResolveTenantDomain(ctx context.Context, orgID string) (string, error) {
	var org model.Organization
	tx := d.db.WithContext(ctx).Where("org_id = ?", orgID).First(&org)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return "", directory.ErrOrganizationNotFound
		}
		return "", tx.Error
	}
	return org.TenantDomain, nil
}

// CreateOrganization registers an organization under a tenant
func (d *OrganizationDirectory) CreateOrganization(ctx context.Context, org *model.Organization) error {
	return d.db.WithContext(ctx).Create(org).Error
}

// ListOrganizations returns all organizations owned by a tenant domain
func (d *OrganizationDirectory) ListOrganizations(ctx context.Context, tenantDomain string) ([]model.Organization, error) {
	var orgs []model.Organization
	tx := d.db.WithContext(ctx).Where("tenant_domain = ?", tenantDomain).Order("org_id").Find(&orgs)
	return orgs, tx.Error
}
