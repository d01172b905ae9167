package endpoints

import (
	"net/http"

	"github.com/quorial/idgate/pkg/audit"
	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/reqcontext"
	"github.com/quorial/idgate/pkg/server"
	"github.com/quorial/idgate/pkg/server/middleware"
)

// AuthenticateResponse carries the resolved identity context of a
// successful authentication
type AuthenticateResponse struct {
	TenantDomain           string `json:"tenant_domain"`
	Username               string `json:"username,omitempty"`
	UserID                 string `json:"user_id,omitempty"`
	ResidentOrganizationID string `json:"resident_organization_id,omitempty"`
	Strategy               string `json:"strategy"`
}

// RegisterAuthenticateEndpoint registers the authenticate endpoint
func RegisterAuthenticateEndpoint(s *server.Server) {
	registry := s.Registry
	cfg := s.Config
	auditor := s.Auditor

	// POST /authn/{tenant}/authenticate - authenticate and resolve identity
	s.Router.HandleFunc(
		"/authn/{tenant}/authenticate",
		func(w http.ResponseWriter, r *http.Request) {
			in := middleware.InputFromRequest(r, cfg)
			if len(in.Credentials) == 0 {
				w.Header().Set("WWW-Authenticate", `Basic realm="idgate"`)
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			handler, ok := registry.Select(in)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "no strategy can handle this request")
				return
			}

			rc := reqcontext.New(in.TenantDomain)
			outcome, err := handler.Authenticate(r.Context(), rc, in)
			if err != nil {
				logAuthn(auditor, in, handler.Name(), false, err.Error())
				middleware.WriteAuthError(w, err)
				return
			}
			if outcome.Status != authcore.StatusSuccess {
				logAuthn(auditor, in, handler.Name(), false, "invalid credentials")
				respondWithError(w, http.StatusUnauthorized, "authentication failed")
				return
			}

			logAuthn(auditor, in, handler.Name(), true, "")
			respondWithJSON(w, http.StatusOK, AuthenticateResponse{
				TenantDomain:           rc.TenantDomain(),
				Username:               rc.Username(),
				UserID:                 rc.UserID(),
				ResidentOrganizationID: rc.ResidentOrganizationID(),
				Strategy:               handler.Name(),
			})
		},
	).Methods("POST")
}

func logAuthn(auditor *audit.Logger, in authcore.Input, strategy string, success bool, errMsg string) {
	if auditor == nil {
		return
	}
	auditor.Log(audit.AuthenticateEvent{
		TenantDomain: in.TenantDomain,
		Username:     in.Login,
		StrategyName: strategy,
		ClientIP:     in.ClientIP,
		Success:      success,
		ErrorMessage: errMsg,
	})
}
