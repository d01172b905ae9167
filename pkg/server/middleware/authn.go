package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/config"
	"github.com/quorial/idgate/pkg/reqcontext"
)

// TenantHeader names the header carrying the serving tenant domain on
// routes that don't encode it in the path.
const TenantHeader = "X-Tenant-Domain"

// Authenticator is middleware that runs the authentication pipeline and
// publishes the resolved request context.
type Authenticator struct {
	registry *authcore.Registry
	cfg      *config.Config
}

// NewAuthenticator creates a new authentication middleware
func NewAuthenticator(registry *authcore.Registry, cfg *config.Config) *Authenticator {
	return &Authenticator{registry: registry, cfg: cfg}
}

// InputFromRequest builds the strategy input from an HTTP request. Basic
// auth supplies login and password; a bearer token travels as the raw
// credential with the login left for the token to assert.
func InputFromRequest(r *http.Request, cfg *config.Config) authcore.Input {
	in := authcore.Input{
		TenantDomain: tenantDomain(r),
		ClientIP:     clientIP(r, cfg),
		Request:      r,
	}

	if username, password, ok := r.BasicAuth(); ok {
		in.Login = username
		in.Credentials = []byte(password)
		return in
	}

	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		in.Credentials = []byte(token)
	}
	return in
}

func tenantDomain(r *http.Request) string {
	if tenant, ok := mux.Vars(r)["tenant"]; ok && tenant != "" {
		return tenant
	}
	return r.Header.Get(TenantHeader)
}

// clientIP returns the originating client address. X-Forwarded-For is only
// honored when the direct peer is a trusted proxy.
func clientIP(r *http.Request, cfg *config.Config) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if cfg != nil && cfg.IsTrustedProxy(host) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if first != "" {
				return first
			}
		}
	}
	return host
}

// WriteAuthError maps an authentication error onto an HTTP response
func WriteAuthError(w http.ResponseWriter, err error) {
	switch {
	case authcore.IsClientError(err):
		http.Error(w, "Malformed request", http.StatusBadRequest)
	case authcore.IsFailure(err):
		http.Error(w, "Authentication failed", http.StatusUnauthorized)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Middleware authenticates the request with the best matching strategy and
// stores the resolved request context for downstream handlers.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in := InputFromRequest(r, a.cfg)
		if len(in.Credentials) == 0 {
			w.Header().Set("WWW-Authenticate", `Basic realm="idgate"`)
			http.Error(w, "Authorization missing", http.StatusUnauthorized)
			return
		}

		handler, ok := a.registry.Select(in)
		if !ok {
			http.Error(w, "No strategy can handle this request", http.StatusUnauthorized)
			return
		}

		rc := reqcontext.New(in.TenantDomain)
		outcome, err := handler.Authenticate(r.Context(), rc, in)
		if err != nil {
			WriteAuthError(w, err)
			return
		}
		if outcome.Status != authcore.StatusSuccess {
			http.Error(w, "Authentication failed", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(reqcontext.Set(r.Context(), rc)))
	})
}
