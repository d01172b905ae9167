package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/quorial/idgate/pkg/audit"
	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/directory"
	"github.com/quorial/idgate/pkg/identity"
	"github.com/quorial/idgate/pkg/reqcontext"
	"github.com/quorial/idgate/pkg/userstore"
)

// Result reports how a resolution went. Diagnostics are non-fatal: a
// degraded result still counts as a successful authentication, only with an
// incompletely populated request context.
type Result struct {
	Diagnostics []error
}

// Degraded reports whether any part of the context could not be resolved.
func (r Result) Degraded() bool { return len(r.Diagnostics) > 0 }

func (r *Result) record(err error) {
	r.Diagnostics = append(r.Diagnostics, err)
}

// Resolver decides the final identity representation and organizational
// scope of a successful authentication and writes it into the request
// context.
type Resolver struct {
	orgs    directory.OrganizationDirectory
	tenants directory.TenantDirectory
	realms  userstore.RealmService
	auditor *audit.Logger
}

// New creates a resolver over the given directories and realm service.
func New(orgs directory.OrganizationDirectory, tenants directory.TenantDirectory, realms userstore.RealmService) *Resolver {
	return &Resolver{
		orgs:    orgs,
		tenants: tenants,
		realms:  realms,
		auditor: audit.DefaultLogger,
	}
}

// WithAudit sets the audit logger used to record diagnostics.
func (r *Resolver) WithAudit(l *audit.Logger) *Resolver {
	r.auditor = l
	return r
}

// PostAuthenticate implements authcore.ContextPublisher: it resolves the
// outcome into rc and records any diagnostics on the audit log. Errors never
// escape; a failed lookup leaves the context at its previous state.
func (r *Resolver) PostAuthenticate(ctx context.Context, rc *reqcontext.Context, outcome *authcore.Outcome) {
	result := r.Resolve(ctx, rc, outcome)
	if !result.Degraded() || r.auditor == nil {
		return
	}

	for _, diag := range result.Diagnostics {
		event := audit.ResolutionEvent{
			TenantDomain: rc.TenantDomain(),
			Username:     rc.Username(),
			Step:         diagnosticStep(diag),
			ErrorMessage: diag.Error(),
		}
		var orgErr *OrganizationResolutionError
		if errors.As(diag, &orgErr) {
			event.OrganizationID = orgErr.OrganizationID
		}
		r.auditor.Log(event)
	}
}

// Resolve publishes the authenticated identity into rc.
//
// The steps, in order: same-tenant username update, canonical user-id
// propagation, organization-scope propagation with optional username
// re-resolution for organization SSO logins. Each step degrades
// independently; nothing here can flip the authentication verdict.
func (r *Resolver) Resolve(ctx context.Context, rc *reqcontext.Context, outcome *authcore.Outcome) Result {
	var result Result

	if outcome == nil || outcome.Status != authcore.StatusSuccess || outcome.User == nil {
		return result
	}
	user := outcome.User

	// Cross-tenant successes must not overwrite the ambient username.
	if user.TenantDomain != "" && strings.EqualFold(user.TenantDomain, rc.TenantDomain()) {
		rc.SetUsername(identity.AddDomainToName(user.Username, user.UserStoreDomain))
	}

	attrs := user.Extended()
	if attrs.OrganizationUser {
		/* Users whose identity is managed in an organization authenticate
		   through organization SSO; being federated logins, their username
		   field carries the corresponding user id. */
		surrogate := identity.TenantAwareUsername(user.Username)
		surrogate = identity.RemoveDomainFromName(surrogate)
		if surrogate == "" {
			result.record(&UserIDUnresolvedError{Username: user.Username})
		} else {
			rc.SetUserID(surrogate)
		}
	} else if attrs.UserID != "" {
		rc.SetUserID(attrs.UserID)
	} else {
		result.record(&UserIDUnresolvedError{Username: user.Username})
	}

	if attrs.AccessingOrganizationID != "" {
		// The user is accessing an organization: expose where the account
		// actually resides.
		rc.SetResidentOrganizationID(attrs.ResidentOrganizationID)
		if attrs.FederatedUser {
			r.reResolveUsername(ctx, rc, attrs.ResidentOrganizationID, &result)
		}
	}

	return result
}

// reResolveUsername replaces the surrogate id published for an organization
// SSO user with the canonical username from the tenant owning the user's
// directory entry. Best effort: any failure keeps the previous username.
func (r *Resolver) reResolveUsername(ctx context.Context, rc *reqcontext.Context, residentOrgID string, result *Result) {
	tenantDomain, err := r.orgs.ResolveTenantDomain(ctx, residentOrgID)
	if err != nil {
		result.record(&OrganizationResolutionError{OrganizationID: residentOrgID, Err: err})
		return
	}

	tenantID, err := r.tenants.TenantID(ctx, tenantDomain)
	if err != nil {
		result.record(&OrganizationResolutionError{OrganizationID: residentOrgID, Err: err})
		return
	}

	gateway, err := r.realms.TenantRealm(ctx, tenantID)
	if err != nil {
		result.record(&UserStoreAccessError{UserID: rc.UserID(), Err: err})
		return
	}
	if gateway == nil {
		// Tenant has no realm. Expected for some tenants, not an error.
		return
	}

	user, err := gateway.GetUser(ctx, rc.UserID(), "")
	if err != nil {
		result.record(&UserStoreAccessError{UserID: rc.UserID(), Err: err})
		return
	}

	if user != nil && user.Username != "" {
		rc.SetUsername(user.Username)
	}
}

func diagnosticStep(diag error) string {
	var uidErr *UserIDUnresolvedError
	var orgErr *OrganizationResolutionError
	var storeErr *UserStoreAccessError
	switch {
	case errors.As(diag, &uidErr):
		return "user-id"
	case errors.As(diag, &orgErr):
		return "organization"
	case errors.As(diag, &storeErr):
		return "user-store"
	}
	return "unknown"
}
