package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/config"
	"github.com/quorial/idgate/pkg/identity"
	"github.com/quorial/idgate/pkg/resolver"
	"github.com/quorial/idgate/pkg/server"
	"github.com/quorial/idgate/pkg/userstore"
)

// passwordStrategy authenticates a single hard-coded user
type passwordStrategy struct {
	err error
}

func (s *passwordStrategy) Name() string { return "basic" }

func (s *passwordStrategy) CanHandle(in authcore.Input) bool {
	return in.Login != "" && len(in.Credentials) > 0
}

func (s *passwordStrategy) DoAuthenticate(ctx context.Context, in authcore.Input) (*authcore.Outcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	if in.Login != "alice" || string(in.Credentials) != "s3cret" {
		return authcore.Failed(), nil
	}
	return authcore.Success(&identity.Identity{
		Username:        "alice",
		TenantDomain:    in.TenantDomain,
		UserStoreDomain: "PRIMARY",
		Attrs:           &identity.OrgAttributes{UserID: "uid-1"},
	}), nil
}

type staticOrgDirectory struct{}

func (staticOrgDirectory) ResolveTenantDomain(ctx context.Context, orgID string) (string, error) {
	return "", errors.New("unknown organization")
}

type staticTenantDirectory struct{}

func (staticTenantDirectory) TenantID(ctx context.Context, domain string) (int64, error) {
	return 0, errors.New("unknown tenant")
}

type staticRealmService struct{}

func (staticRealmService) TenantRealm(ctx context.Context, tenantID int64) (userstore.Gateway, error) {
	return nil, nil
}

func newTestServer(t *testing.T, strategy authcore.Strategy) *server.Server {
	t.Helper()

	publisher := resolver.New(staticOrgDirectory{}, staticTenantDirectory{}, staticRealmService{}).WithAudit(nil)

	registry := authcore.NewRegistry()
	registry.Register(authcore.NewHandler(strategy, publisher))
	require.NoError(t, registry.Enable(strategy.Name()))

	cfg := &config.Config{ListenAddress: "127.0.0.1:0"}
	srv := server.NewServer(cfg, nil, registry, nil)
	RegisterAll(srv)
	return srv
}

func TestAuthenticateEndpoint(t *testing.T) {
	srv := newTestServer(t, &passwordStrategy{})

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/acme.com/authenticate", nil)
		req.SetBasicAuth("alice", "s3cret")
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var result AuthenticateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "acme.com", result.TenantDomain)
		assert.Equal(t, "PRIMARY/alice", result.Username)
		assert.Equal(t, "uid-1", result.UserID)
		assert.Equal(t, "basic", result.Strategy)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/acme.com/authenticate", nil)
		req.SetBasicAuth("alice", "wrong")
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/authn/acme.com/authenticate", nil)
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})
}

func TestAuthenticateEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "client error",
			err:      authcore.NewClientError("bad request", nil),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "failure error",
			err:      authcore.NewFailureError("bad credentials", nil),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "server error",
			err:      authcore.NewServerError("store down", nil),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &passwordStrategy{err: tt.err})

			req := httptest.NewRequest("POST", "/authn/acme.com/authenticate", nil)
			req.SetBasicAuth("alice", "s3cret")
			w := httptest.NewRecorder()

			srv.Router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestWhoamiEndpoint(t *testing.T) {
	srv := newTestServer(t, &passwordStrategy{})

	t.Run("authenticated request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("X-Tenant-Domain", "acme.com")
		req.SetBasicAuth("alice", "s3cret")
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var result WhoamiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "acme.com", result.TenantDomain)
		assert.Equal(t, "PRIMARY/alice", result.Username)
		assert.Equal(t, "uid-1", result.UserID)
	})

	t.Run("unauthenticated request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.SetBasicAuth("alice", "wrong")
		w := httptest.NewRecorder()

		srv.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, &passwordStrategy{})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "ok", result.Status)
	assert.NotEmpty(t, result.Version)
}

func TestStrategiesEndpoint(t *testing.T) {
	srv := newTestServer(t, &passwordStrategy{})

	req := httptest.NewRequest("GET", "/strategies", nil)
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result StrategiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"basic"}, result.Installed)
	assert.Equal(t, []string{"basic"}, result.Enabled)
}

// Context propagation survives the full round trip through the router.
func TestAuthenticateResolvesThroughPublisher(t *testing.T) {
	srv := newTestServer(t, &passwordStrategy{})

	req := httptest.NewRequest("POST", "/authn/other.com/authenticate", nil)
	req.SetBasicAuth("alice", "s3cret")
	w := httptest.NewRecorder()

	srv.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result AuthenticateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	// The identity's tenant matches the serving tenant here, so the
	// store-qualified username comes back.
	assert.Equal(t, "PRIMARY/alice", result.Username)
	assert.Equal(t, "uid-1", result.UserID)
}
