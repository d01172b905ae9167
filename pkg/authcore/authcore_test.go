package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorial/idgate/pkg/identity"
	"github.com/quorial/idgate/pkg/reqcontext"
)

// mockStrategy is a configurable strategy for testing
type mockStrategy struct {
	name      string
	canHandle bool
	outcome   *Outcome
	err       error
}

func (m *mockStrategy) Name() string { return m.name }

func (m *mockStrategy) CanHandle(in Input) bool { return m.canHandle }

func (m *mockStrategy) DoAuthenticate(ctx context.Context, in Input) (*Outcome, error) {
	return m.outcome, m.err
}

// recordingPublisher records the outcome it was handed
type recordingPublisher struct {
	called  bool
	outcome *Outcome
}

func (p *recordingPublisher) PostAuthenticate(ctx context.Context, rc *reqcontext.Context, outcome *Outcome) {
	p.called = true
	p.outcome = outcome
}

// mutatingPublisher tries to flip the verdict; the handler must not care
type mutatingPublisher struct{}

func (p *mutatingPublisher) PostAuthenticate(ctx context.Context, rc *reqcontext.Context, outcome *Outcome) {
	rc.SetUsername("someone-else")
}

func TestHandler_Authenticate_ReturnsOutcomeUnchanged(t *testing.T) {
	user := &identity.Identity{Username: "alice", TenantDomain: "acme.com"}
	outcome := Success(user)
	publisher := &recordingPublisher{}
	h := NewHandler(&mockStrategy{name: "mock", outcome: outcome}, publisher)

	rc := reqcontext.New("acme.com")
	got, err := h.Authenticate(context.Background(), rc, Input{})

	require.NoError(t, err)
	assert.Same(t, outcome, got)
	assert.True(t, publisher.called)
	assert.Same(t, outcome, publisher.outcome)
}

func TestHandler_Authenticate_PublisherRunsOnFailedOutcome(t *testing.T) {
	// postAuthenticate is invoked for every returned outcome; the resolver
	// itself decides that FAILED outcomes are a no-op.
	publisher := &recordingPublisher{}
	h := NewHandler(&mockStrategy{name: "mock", outcome: Failed()}, publisher)

	got, err := h.Authenticate(context.Background(), reqcontext.New("acme.com"), Input{})

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.True(t, publisher.called)
}

func TestHandler_Authenticate_StrategyErrorAbortsFlow(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "server error", err: NewServerError("store unreachable", errors.New("conn refused")), check: IsServerError},
		{name: "client error", err: NewClientError("malformed header", nil), check: IsClientError},
		{name: "failure", err: NewFailureError("bad credentials", nil), check: IsFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &recordingPublisher{}
			h := NewHandler(&mockStrategy{name: "mock", err: tt.err}, publisher)

			got, err := h.Authenticate(context.Background(), reqcontext.New("acme.com"), Input{})

			assert.Nil(t, got)
			assert.Equal(t, tt.err, err)
			assert.True(t, tt.check(err))
			assert.False(t, publisher.called, "publisher must not run when the strategy errors")
		})
	}
}

func TestHandler_Authenticate_VerdictSurvivesPublisher(t *testing.T) {
	outcome := Success(&identity.Identity{Username: "alice"})
	h := NewHandler(&mockStrategy{name: "mock", outcome: outcome}, &mutatingPublisher{})

	got, err := h.Authenticate(context.Background(), reqcontext.New("acme.com"), Input{})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, got.Status)
	assert.Same(t, outcome, got)
}

func TestHandler_Authenticate_NilPublisher(t *testing.T) {
	h := NewHandler(&mockStrategy{name: "mock", outcome: Failed()}, nil)

	got, err := h.Authenticate(context.Background(), reqcontext.New("acme.com"), Input{})

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
}

func TestHandler_Priority(t *testing.T) {
	h := NewHandler(&mockStrategy{name: "mock"}, nil)

	assert.Equal(t, 10, h.Priority(10), "unset priority falls back to default")

	h.WithPriority(25)
	assert.Equal(t, 25, h.Priority(10))

	h.WithPriority(0)
	assert.Equal(t, 0, h.Priority(10), "zero is a real priority, not the sentinel")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "SUCCESS", StatusSuccess.String())
	assert.Equal(t, "FAILED", StatusFailed.String())

	s, err := StatusString("FAILED")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, s)

	_, err = StatusString("MAYBE")
	assert.Error(t, err)
}
