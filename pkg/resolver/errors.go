package resolver

import "fmt"

// UserIDUnresolvedError records that no canonical user id could be derived
// for an authenticated identity. The user id stays unset in the request
// context; the authentication verdict is unaffected.
type UserIDUnresolvedError struct {
	Username string
}

func (e *UserIDUnresolvedError) Error() string {
	return fmt.Sprintf("user id not found for user %q", e.Username)
}

// OrganizationResolutionError records a failed organization or tenant
// directory lookup during username re-resolution.
type OrganizationResolutionError struct {
	OrganizationID string
	Err            error
}

func (e *OrganizationResolutionError) Error() string {
	return fmt.Sprintf("could not resolve organization %q: %v", e.OrganizationID, e.Err)
}

func (e *OrganizationResolutionError) Unwrap() error { return e.Err }

// UserStoreAccessError records a failed user-store lookup during username
// re-resolution.
type UserStoreAccessError struct {
	UserID string
	Err    error
}

func (e *UserStoreAccessError) Error() string {
	return fmt.Sprintf("user store lookup failed for user id %q: %v", e.UserID, e.Err)
}

func (e *UserStoreAccessError) Unwrap() error { return e.Err }
