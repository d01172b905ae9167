package resolver

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorial/idgate/pkg/audit"
	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/identity"
	"github.com/quorial/idgate/pkg/reqcontext"
	"github.com/quorial/idgate/pkg/userstore"
)

// fakeOrgDirectory maps organization ids to tenant domains
type fakeOrgDirectory struct {
	domains map[string]string
	err     error
	calls   int
}

func (f *fakeOrgDirectory) ResolveTenantDomain(ctx context.Context, orgID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	domain, ok := f.domains[orgID]
	if !ok {
		return "", errors.New("unknown organization")
	}
	return domain, nil
}

// fakeTenantDirectory maps tenant domains to tenant ids
type fakeTenantDirectory struct {
	ids map[string]int64
	err error
}

func (f *fakeTenantDirectory) TenantID(ctx context.Context, domain string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	id, ok := f.ids[domain]
	if !ok {
		return 0, errors.New("unknown tenant")
	}
	return id, nil
}

// fakeRealmService hands out one gateway for every tenant id
type fakeRealmService struct {
	gateway userstore.Gateway
	err     error
	absent  bool
}

func (f *fakeRealmService) TenantRealm(ctx context.Context, tenantID int64) (userstore.Gateway, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.absent {
		return nil, nil
	}
	return f.gateway, nil
}

// fakeGateway maps user ids to users
type fakeGateway struct {
	users map[string]*userstore.User
	err   error
}

func (f *fakeGateway) GetUser(ctx context.Context, userID, domainHint string) (*userstore.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[userID], nil
}

func newTestResolver() (*Resolver, *fakeOrgDirectory, *fakeTenantDirectory, *fakeRealmService, *fakeGateway) {
	gateway := &fakeGateway{users: map[string]*userstore.User{
		"uid-123": {ID: "uid-123", Username: "bob"},
	}}
	orgs := &fakeOrgDirectory{domains: map[string]string{"org-42": "org-tenant.com"}}
	tenants := &fakeTenantDirectory{ids: map[string]int64{"org-tenant.com": 7}}
	realms := &fakeRealmService{gateway: gateway}
	r := New(orgs, tenants, realms).WithAudit(nil)
	return r, orgs, tenants, realms, gateway
}

func orgSSOUser() *identity.Identity {
	return &identity.Identity{
		Username:     "tenant1.com/uid-123",
		TenantDomain: "tenant1.com",
		Attrs: &identity.OrgAttributes{
			FederatedUser:           true,
			OrganizationUser:        true,
			AccessingOrganizationID: "org-7",
			ResidentOrganizationID:  "org-42",
		},
	}
}

func TestResolve_FailedOutcomeLeavesContextUntouched(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("acme.com")

	result := r.Resolve(context.Background(), rc, authcore.Failed())

	assert.False(t, result.Degraded())
	assert.Empty(t, rc.Username())
	assert.False(t, rc.UserIDSet())
	assert.Empty(t, rc.ResidentOrganizationID())
}

func TestResolve_NilOutcomeAndNilUser(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("acme.com")

	assert.False(t, r.Resolve(context.Background(), rc, nil).Degraded())
	assert.False(t, r.Resolve(context.Background(), rc, &authcore.Outcome{Status: authcore.StatusSuccess}).Degraded())
	assert.Empty(t, rc.Username())
	assert.False(t, rc.UserIDSet())
}

func TestResolve_SameTenantQualifiedUsername(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("acme.com")
	user := &identity.Identity{
		Username:        "alice",
		TenantDomain:    "acme.com",
		UserStoreDomain: "PRIMARY",
		Attrs:           &identity.OrgAttributes{UserID: "uid-1"},
	}

	result := r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.False(t, result.Degraded())
	assert.Equal(t, "PRIMARY/alice", rc.Username())
	assert.Equal(t, "uid-1", rc.UserID())
}

func TestResolve_SameTenantNoStoreDomain(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("acme.com")
	user := &identity.Identity{
		Username:     "alice",
		TenantDomain: "acme.com",
		Attrs:        &identity.OrgAttributes{UserID: "uid-1"},
	}

	r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.Equal(t, "alice", rc.Username())
}

func TestResolve_TenantCompareIsCaseInsensitive(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("ACME.com")
	user := &identity.Identity{
		Username:        "alice",
		TenantDomain:    "acme.COM",
		UserStoreDomain: "PRIMARY",
		Attrs:           &identity.OrgAttributes{UserID: "uid-1"},
	}

	r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.Equal(t, "PRIMARY/alice", rc.Username())
}

func TestResolve_CrossTenantSkipsUsername(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("other.com")
	user := &identity.Identity{
		Username:        "alice",
		TenantDomain:    "acme.com",
		UserStoreDomain: "PRIMARY",
		Attrs:           &identity.OrgAttributes{UserID: "uid-1"},
	}

	result := r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.False(t, result.Degraded())
	assert.Empty(t, rc.Username(), "cross-tenant identities never mutate the ambient username")
	assert.Equal(t, "uid-1", rc.UserID(), "user id still resolves for cross-tenant successes")
}

func TestResolve_EmptyIdentityTenantNeverMatches(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("")
	user := &identity.Identity{
		Username: "alice",
		Attrs:    &identity.OrgAttributes{UserID: "uid-1"},
	}

	r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.Empty(t, rc.Username())
}

func TestResolve_OrganizationUserSurrogateStripping(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected string
	}{
		{
			name:     "store-domain qualified surrogate",
			username: "tenant1.com/uid-123",
			expected: "uid-123",
		},
		{
			name:     "tenant qualified surrogate",
			username: "uid-123@tenant1.com",
			expected: "uid-123",
		},
		{
			name:     "both qualifications",
			username: "DOMAIN/uid-123@tenant1.com",
			expected: "uid-123",
		},
		{
			name:     "bare surrogate",
			username: "uid-123",
			expected: "uid-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _, _, _ := newTestResolver()
			rc := reqcontext.New("serving.com")
			user := &identity.Identity{
				Username:     tt.username,
				TenantDomain: "tenant1.com",
				Attrs:        &identity.OrgAttributes{OrganizationUser: true},
			}

			result := r.Resolve(context.Background(), rc, authcore.Success(user))

			assert.False(t, result.Degraded())
			assert.Equal(t, tt.expected, rc.UserID())
		})
	}
}

func TestResolve_NonOrganizationUserTakesUserIDAttribute(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("acme.com")
	user := &identity.Identity{
		Username:     "alice",
		TenantDomain: "acme.com",
		Attrs:        &identity.OrgAttributes{UserID: "uid-55"},
	}

	r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.Equal(t, "uid-55", rc.UserID())
}

func TestResolve_UnresolvableUserIDIsDegradedNotFatal(t *testing.T) {
	tests := []struct {
		name string
		user *identity.Identity
	}{
		{
			name: "plain identity without attributes",
			user: &identity.Identity{Username: "alice", TenantDomain: "acme.com"},
		},
		{
			name: "extended identity with empty user id",
			user: &identity.Identity{
				Username:     "alice",
				TenantDomain: "acme.com",
				Attrs:        &identity.OrgAttributes{},
			},
		},
		{
			name: "organization user whose surrogate strips to empty",
			user: &identity.Identity{
				Username:     "DOMAIN/@tenant1.com",
				TenantDomain: "acme.com",
				Attrs:        &identity.OrgAttributes{OrganizationUser: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _, _, _ := newTestResolver()
			rc := reqcontext.New("acme.com")

			result := r.Resolve(context.Background(), rc, authcore.Success(tt.user))

			require.True(t, result.Degraded())
			var uidErr *UserIDUnresolvedError
			assert.True(t, errors.As(result.Diagnostics[0], &uidErr))
			assert.False(t, rc.UserIDSet(), "user id must stay unset when unresolvable")
		})
	}
}

func TestResolve_AccessingOrganizationSetsResidentOrg(t *testing.T) {
	r, orgs, _, _, _ := newTestResolver()
	rc := reqcontext.New("serving.com")
	user := &identity.Identity{
		Username:     "alice",
		TenantDomain: "acme.com",
		Attrs: &identity.OrgAttributes{
			UserID:                  "uid-1",
			AccessingOrganizationID: "org-7",
			ResidentOrganizationID:  "org-42",
		},
	}

	result := r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.False(t, result.Degraded())
	assert.Equal(t, "org-42", rc.ResidentOrganizationID())
	assert.Zero(t, orgs.calls, "non-federated users skip username re-resolution")
}

func TestResolve_NoAccessingOrganizationSkipsOrgScope(t *testing.T) {
	r, orgs, _, _, _ := newTestResolver()
	rc := reqcontext.New("acme.com")
	user := &identity.Identity{
		Username:     "alice",
		TenantDomain: "acme.com",
		Attrs: &identity.OrgAttributes{
			UserID:                 "uid-1",
			FederatedUser:          true,
			ResidentOrganizationID: "org-42",
		},
	}

	r.Resolve(context.Background(), rc, authcore.Success(user))

	assert.Empty(t, rc.ResidentOrganizationID())
	assert.Zero(t, orgs.calls)
}

func TestResolve_OrganizationSSOReResolvesUsername(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("serving.com")

	result := r.Resolve(context.Background(), rc, authcore.Success(orgSSOUser()))

	assert.False(t, result.Degraded())
	assert.Equal(t, "uid-123", rc.UserID())
	assert.Equal(t, "bob", rc.Username())
	assert.Equal(t, "org-42", rc.ResidentOrganizationID())
}

func TestResolve_ReResolutionFailuresKeepPreviousUsername(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(orgs *fakeOrgDirectory, tenants *fakeTenantDirectory, realms *fakeRealmService, gw *fakeGateway)
		wantDiag bool
		wantKind string
	}{
		{
			name: "organization directory failure",
			mutate: func(orgs *fakeOrgDirectory, _ *fakeTenantDirectory, _ *fakeRealmService, _ *fakeGateway) {
				orgs.err = errors.New("directory down")
			},
			wantDiag: true,
			wantKind: "organization",
		},
		{
			name: "tenant directory failure",
			mutate: func(_ *fakeOrgDirectory, tenants *fakeTenantDirectory, _ *fakeRealmService, _ *fakeGateway) {
				tenants.err = errors.New("tenant lookup down")
			},
			wantDiag: true,
			wantKind: "organization",
		},
		{
			name: "realm service failure",
			mutate: func(_ *fakeOrgDirectory, _ *fakeTenantDirectory, realms *fakeRealmService, _ *fakeGateway) {
				realms.err = errors.New("realm down")
			},
			wantDiag: true,
			wantKind: "user-store",
		},
		{
			name: "tenant without realm is a silent no-op",
			mutate: func(_ *fakeOrgDirectory, _ *fakeTenantDirectory, realms *fakeRealmService, _ *fakeGateway) {
				realms.absent = true
			},
			wantDiag: false,
		},
		{
			name: "user store lookup failure",
			mutate: func(_ *fakeOrgDirectory, _ *fakeTenantDirectory, _ *fakeRealmService, gw *fakeGateway) {
				gw.err = errors.New("store unreachable")
			},
			wantDiag: true,
			wantKind: "user-store",
		},
		{
			name: "user absent from store",
			mutate: func(_ *fakeOrgDirectory, _ *fakeTenantDirectory, _ *fakeRealmService, gw *fakeGateway) {
				gw.users = map[string]*userstore.User{}
			},
			wantDiag: false,
		},
		{
			name: "store returns empty username",
			mutate: func(_ *fakeOrgDirectory, _ *fakeTenantDirectory, _ *fakeRealmService, gw *fakeGateway) {
				gw.users["uid-123"] = &userstore.User{ID: "uid-123"}
			},
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, orgs, tenants, realms, gw := newTestResolver()
			tt.mutate(orgs, tenants, realms, gw)
			rc := reqcontext.New("serving.com")

			result := r.Resolve(context.Background(), rc, authcore.Success(orgSSOUser()))

			// The surrogate from step 2 survives in every failure mode.
			assert.Equal(t, "uid-123", rc.UserID())
			assert.Equal(t, "org-42", rc.ResidentOrganizationID())
			assert.Empty(t, rc.Username(), "username must retain its pre-resolution value")

			assert.Equal(t, tt.wantDiag, result.Degraded())
			if tt.wantDiag {
				assert.Equal(t, tt.wantKind, diagnosticStep(result.Diagnostics[0]))
			}
		})
	}
}

func TestResolve_SameTenantOrgSSOKeepsStepOneUsernameOnFailure(t *testing.T) {
	// When the serving tenant equals the identity tenant, step 1 publishes
	// the surrogate username; a failed re-resolution must leave that value.
	r, _, _, realms, _ := newTestResolver()
	realms.err = errors.New("realm down")
	rc := reqcontext.New("tenant1.com")

	r.Resolve(context.Background(), rc, authcore.Success(orgSSOUser()))

	assert.Equal(t, "tenant1.com/uid-123", rc.Username())
}

func TestResolve_Idempotent(t *testing.T) {
	r, _, _, _, _ := newTestResolver()
	rc := reqcontext.New("serving.com")
	outcome := authcore.Success(orgSSOUser())

	first := r.Resolve(context.Background(), rc, outcome)
	username, userID, orgID := rc.Username(), rc.UserID(), rc.ResidentOrganizationID()

	second := r.Resolve(context.Background(), rc, outcome)

	assert.Equal(t, first.Degraded(), second.Degraded())
	assert.Equal(t, username, rc.Username())
	assert.Equal(t, userID, rc.UserID())
	assert.Equal(t, orgID, rc.ResidentOrganizationID())
}

func TestPostAuthenticate_RecordsDiagnosticsOnAuditLog(t *testing.T) {
	var buf bytes.Buffer
	logger := audit.NewLogger()
	logger.SetWriter(&buf)

	orgs := &fakeOrgDirectory{err: errors.New("directory down")}
	tenants := &fakeTenantDirectory{}
	realms := &fakeRealmService{}
	r := New(orgs, tenants, realms).WithAudit(logger)

	rc := reqcontext.New("serving.com")
	r.PostAuthenticate(context.Background(), rc, authcore.Success(orgSSOUser()))

	output := buf.String()
	assert.Contains(t, output, "resolve")
	assert.Contains(t, output, "org-42")
	assert.Contains(t, output, "degraded")

	// Degradation stayed local: the context still holds the surrogate.
	assert.Equal(t, "uid-123", rc.UserID())
}

func TestPostAuthenticate_QuietOnCleanResolution(t *testing.T) {
	var buf bytes.Buffer
	logger := audit.NewLogger()
	logger.SetWriter(&buf)

	r, _, _, _, _ := newTestResolver()
	r.WithAudit(logger)

	rc := reqcontext.New("serving.com")
	r.PostAuthenticate(context.Background(), rc, authcore.Success(orgSSOUser()))

	assert.Empty(t, buf.String())
	assert.Equal(t, "bob", rc.Username())
}
