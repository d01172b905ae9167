package authcore

import (
	"context"
	"net/http"

	"github.com/quorial/idgate/pkg/identity"
	"github.com/quorial/idgate/pkg/reqcontext"
)

// Outcome is the result of one authentication attempt. It is produced once
// per request by a strategy and immutable after creation.
type Outcome struct {
	Status Status
	User   *identity.Identity
}

// Success builds a successful outcome for user.
func Success(user *identity.Identity) *Outcome {
	return &Outcome{Status: StatusSuccess, User: user}
}

// Failed builds a failed outcome.
func Failed() *Outcome {
	return &Outcome{Status: StatusFailed}
}

// Input contains the material a strategy validates.
type Input struct {
	// TenantDomain is the tenant the request arrived on.
	TenantDomain string

	// Login is the asserted login name, when the transport carries one
	// separately from the credentials.
	Login string

	// Credentials is the raw credential material (password, token, ...).
	Credentials []byte

	// ClientIP is the remote address of the caller.
	ClientIP string

	// Request is the original HTTP request, for strategies that read
	// headers themselves.
	Request *http.Request
}

// Strategy validates credentials and decides whether a request is
// authenticated. Implementations must be safe for concurrent use.
type Strategy interface {
	// Name returns the strategy name (e.g. "basic", "bearer").
	Name() string

	// CanHandle reports whether the input carries credentials this
	// strategy understands.
	CanHandle(in Input) bool

	// DoAuthenticate validates the credentials. It returns an outcome, or
	// one of *ServerError, *ClientError, *FailureError, which abort the
	// flow and propagate unchanged to the caller.
	DoAuthenticate(ctx context.Context, in Input) (*Outcome, error)
}

// ContextPublisher publishes a successful outcome into the request context.
// It is a side effect: it can degrade the published context but never alter
// the authentication verdict.
type ContextPublisher interface {
	PostAuthenticate(ctx context.Context, rc *reqcontext.Context, outcome *Outcome)
}

// unsetPriority is the sentinel for a handler without a configured priority.
const unsetPriority = -1

// Handler composes a strategy with post-authentication identity propagation.
type Handler struct {
	strategy  Strategy
	publisher ContextPublisher
	priority  int
}

// NewHandler wires a strategy to a context publisher. The publisher may be
// nil, in which case authentication runs without context propagation.
func NewHandler(strategy Strategy, publisher ContextPublisher) *Handler {
	return &Handler{
		strategy:  strategy,
		publisher: publisher,
		priority:  unsetPriority,
	}
}

// WithPriority sets the configured priority used by handler selection.
func (h *Handler) WithPriority(priority int) *Handler {
	h.priority = priority
	return h
}

// Name returns the underlying strategy name.
func (h *Handler) Name() string { return h.strategy.Name() }

// CanHandle reports whether the underlying strategy understands the input.
func (h *Handler) CanHandle(in Input) bool { return h.strategy.CanHandle(in) }

// Priority returns the configured priority, or defaultValue when unset.
func (h *Handler) Priority(defaultValue int) int {
	if h.priority != unsetPriority {
		return h.priority
	}
	return defaultValue
}

// Authenticate runs the strategy and, on a returned outcome, publishes the
// resolved identity into rc. The outcome from the strategy is returned
// unchanged: context propagation never changes the verdict, and strategy
// errors abort the flow before any propagation happens.
func (h *Handler) Authenticate(ctx context.Context, rc *reqcontext.Context, in Input) (*Outcome, error) {
	outcome, err := h.strategy.DoAuthenticate(ctx, in)
	if err != nil {
		return nil, err
	}

	if h.publisher != nil {
		h.publisher.PostAuthenticate(ctx, rc, outcome)
	}

	return outcome, nil
}
