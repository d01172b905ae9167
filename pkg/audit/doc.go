// Package audit emits security audit events in RFC5424 syslog format.
//
// Two event families exist: AuthenticateEvent for the verdict of an
// authentication attempt, and ResolutionEvent for non-fatal identity
// resolution diagnostics (context propagation failures that, per the
// degraded-service contract, are recorded but never surfaced to the
// authentication caller).
//
// Events are written to stdout by default; SetWriter redirects them, which
// the tests use to capture output.
package audit
