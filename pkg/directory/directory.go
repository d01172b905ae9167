package directory

import (
	"context"
	"errors"
)

// ErrOrganizationNotFound is returned when an organization id resolves to no
// known organization.
var ErrOrganizationNotFound = errors.New("organization not found")

// ErrTenantNotFound is returned when a tenant domain resolves to no known
// tenant.
var ErrTenantNotFound = errors.New("tenant not found")

// OrganizationDirectory resolves organization identifiers to the tenant
// domain that hosts them.
type OrganizationDirectory interface {
	// ResolveTenantDomain returns the tenant domain owning the
	// organization's directory entries.
	ResolveTenantDomain(ctx context.Context, organizationID string) (string, error)
}

// TenantDirectory resolves tenant domains to tenant identifiers.
type TenantDirectory interface {
	// TenantID returns the numeric identifier of the tenant serving
	// tenantDomain.
	TenantID(ctx context.Context, tenantDomain string) (int64, error)
}
