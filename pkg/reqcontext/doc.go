// Package reqcontext holds the per-request identity context.
//
// The hosting pipeline creates a fresh Context before authentication runs and
// carries it on the request's context.Context. After a successful
// authentication the identity resolver publishes the tenant domain, username,
// canonical user id and resident organization into it; everything downstream
// (authorization, business handlers) reads from the same instance.
//
// The Context is deliberately a plain mutable value with no synchronization:
// one request owns one Context for its whole lifetime, and it is never shared
// across requests.
package reqcontext
