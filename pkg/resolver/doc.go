// Package resolver normalizes a successful authentication into the
// request's identity context.
//
// An authentication strategy only decides that a request is authenticated;
// it does not decide which identity representation and which organizational
// scope that success applies to. The resolver answers those questions:
//
//   - A same-tenant identity publishes its store-qualified username; a
//     cross-tenant identity never touches the ambient username.
//   - The canonical user id is taken from the identity's attributes, or
//     recovered from the surrogate id that organization SSO logins carry in
//     their username field.
//   - Organization-delegated access publishes the user's resident
//     organization, and for federated logins re-resolves the surrogate id
//     into a human-meaningful username via the organization directory, the
//     tenant directory and the resident tenant's user store.
//
// Every lookup is best effort. Once authentication has succeeded, an
// unreachable directory degrades the published context instead of rejecting
// the request: failures become diagnostics on the returned Result (and audit
// events via PostAuthenticate), and the context always retains its previous
// consistent state. Downstream authorization must tolerate missing optional
// fields.
package resolver
