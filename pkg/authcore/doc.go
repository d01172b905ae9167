// Package authcore orchestrates request authentication.
//
// Credential validation is pluggable: a Strategy decides whether a request is
// authenticated and who it authenticated as, and a Handler composes that
// decision with identity propagation into the request context:
//
//	handler := authcore.NewHandler(strategy, resolver)
//	outcome, err := handler.Authenticate(ctx, rc, in)
//
// The sequence is fixed. DoAuthenticate runs first; any *ServerError,
// *ClientError or *FailureError it returns propagates unchanged to the
// caller and aborts the flow. On a returned outcome the publisher runs as a
// pure side effect and the original outcome is handed back untouched —
// identity propagation can degrade the published context but never flips the
// verdict.
//
// # Handler selection
//
// Multiple handlers register with a Registry; Select picks the enabled
// handler with the highest priority whose strategy recognizes the request's
// credentials. A handler without a configured priority falls back to the
// default supplied at selection time (Priority carries a -1 unset sentinel).
package authcore
