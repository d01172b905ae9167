// Package identity defines the representation of an authenticated principal.
//
// An Identity is produced by an authentication strategy once credential
// validation succeeds. The base fields (username, tenant domain, user-store
// domain) are always meaningful; the organization and federation capabilities
// live behind the optional Attrs field and are populated only by strategies
// that understand organization-delegated logins.
//
// # Name qualification
//
// Usernames move through the system in several shapes:
//
//	alice                 bare username
//	PRIMARY/alice         store-domain qualified
//	alice@acme.com        tenant qualified
//	acme.com/uid-123      surrogate id from an organization SSO login
//
// AddDomainToName, RemoveDomainFromName and TenantAwareUsername convert
// between these shapes. The resolver relies on them to recover the bare
// surrogate id from a federated login's username.
package identity
