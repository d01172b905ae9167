package userstore

import "context"

// User is a directory entry in a tenant's user store.
type User struct {
	ID          string
	Username    string
	StoreDomain string
}

// Gateway reads users from one tenant's user store.
type Gateway interface {
	// GetUser fetches a user by canonical user id. domainHint narrows the
	// lookup to one store domain when non-empty. A missing user is
	// (nil, nil): absence is not an access error.
	GetUser(ctx context.Context, userID, domainHint string) (*User, error)
}

// RealmService hands out the user-store gateway of a tenant's realm.
type RealmService interface {
	// TenantRealm returns the gateway for the tenant's user store. A
	// tenant without a realm yields (nil, nil); that is a legitimate
	// state, distinct from a lookup error.
	TenantRealm(ctx context.Context, tenantID int64) (Gateway, error)
}
