package reqcontext

import "context"

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for the request Context.
	Key ContextKey = "reqcontext"
)

// Context is the request-scoped store for the resolved identity. The hosting
// pipeline creates one per in-flight request before authentication begins;
// only the identity resolver mutates it afterwards. It is owned exclusively
// by the request being processed and needs no locking.
type Context struct {
	tenantDomain  string
	username      string
	userID        string
	residentOrgID string

	userIDSet bool
}

// New creates a request context scoped to the tenant domain the request
// arrived on.
func New(tenantDomain string) *Context {
	return &Context{tenantDomain: tenantDomain}
}

// TenantDomain returns the ambient tenant domain of the request.
func (c *Context) TenantDomain() string { return c.tenantDomain }

// Username returns the resolved username, if any.
func (c *Context) Username() string { return c.username }

// UserID returns the resolved canonical user id, if any.
func (c *Context) UserID() string { return c.userID }

// UserIDSet reports whether a user id has been resolved for this request.
func (c *Context) UserIDSet() bool { return c.userIDSet }

// ResidentOrganizationID returns the resident organization of the
// authenticated user, set only for organization-delegated access.
func (c *Context) ResidentOrganizationID() string { return c.residentOrgID }

// SetUsername records the resolved username.
func (c *Context) SetUsername(name string) { c.username = name }

// SetUserID records the resolved canonical user id.
func (c *Context) SetUserID(id string) {
	c.userID = id
	c.userIDSet = true
}

// SetResidentOrganizationID records the user's resident organization.
func (c *Context) SetResidentOrganizationID(orgID string) { c.residentOrgID = orgID }

// Get retrieves the request Context from ctx.
func Get(ctx context.Context) (*Context, bool) {
	rc, ok := ctx.Value(Key).(*Context)
	return rc, ok
}

// Set stores the request Context in ctx.
func Set(ctx context.Context, rc *Context) context.Context {
	return context.WithValue(ctx, Key, rc)
}
