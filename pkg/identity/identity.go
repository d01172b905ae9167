package identity

import "strings"

const (
	// DomainSeparator separates a user-store domain from a username,
	// e.g. "PRIMARY/alice".
	DomainSeparator = "/"

	// TenantSeparator separates a username from its tenant domain,
	// e.g. "alice@acme.com".
	TenantSeparator = "@"
)

// Identity is the base representation of an authenticated principal.
//
// Attrs is present only when the authentication strategy produced
// organization/federation metadata. Callers must treat it as an optional
// capability: a nil Attrs is a plain same-store user.
type Identity struct {
	Username        string
	TenantDomain    string
	UserStoreDomain string

	Attrs *OrgAttributes
}

// OrgAttributes carries the organization and federation capabilities of an
// authenticated identity.
type OrgAttributes struct {
	// UserID is the canonical user id of the principal, when known.
	UserID string

	// FederatedUser is true when the principal was authenticated through a
	// federated trust (e.g. organization SSO) rather than a local store.
	FederatedUser bool

	// OrganizationUser is true when the principal's identity is managed in
	// an organization. For such users the Username field holds a surrogate
	// user id rather than a human-meaningful name.
	OrganizationUser bool

	// AccessingOrganizationID is the organization the current request is
	// scoped to. Empty for non-delegated access.
	AccessingOrganizationID string

	// ResidentOrganizationID is the organization owning the principal's
	// directory entry.
	ResidentOrganizationID string
}

// Extended returns the identity's organization attributes, synthesizing a
// zero-value set (not federated, not an organization user) when the strategy
// did not populate any.
func (i *Identity) Extended() *OrgAttributes {
	if i.Attrs != nil {
		return i.Attrs
	}
	return &OrgAttributes{}
}

// AddDomainToName qualifies name with a user-store domain. Names already
// carrying a domain, and empty domains, are left untouched.
func AddDomainToName(name, domain string) string {
	if domain == "" || name == "" {
		return name
	}
	if strings.Contains(name, DomainSeparator) {
		return name
	}
	return domain + DomainSeparator + name
}

// RemoveDomainFromName strips a leading user-store domain qualification,
// e.g. "PRIMARY/alice" -> "alice".
func RemoveDomainFromName(name string) string {
	if idx := strings.Index(name, DomainSeparator); idx >= 0 {
		return name[idx+len(DomainSeparator):]
	}
	return name
}

// TenantAwareUsername strips a trailing tenant qualification,
// e.g. "alice@acme.com" -> "alice".
func TenantAwareUsername(name string) string {
	if idx := strings.LastIndex(name, TenantSeparator); idx >= 0 {
		return name[:idx]
	}
	return name
}
