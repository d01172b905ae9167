package endpoints

import (
	"net/http"

	"github.com/quorial/idgate/pkg/reqcontext"
	"github.com/quorial/idgate/pkg/server"
	"github.com/quorial/idgate/pkg/server/middleware"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	TenantDomain           string `json:"tenant_domain"`
	Username               string `json:"username,omitempty"`
	UserID                 string `json:"user_id,omitempty"`
	ResidentOrganizationID string `json:"resident_organization_id,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	authn := middleware.NewAuthenticator(s.Registry, s.Config)

	// Create a subrouter for /whoami that authenticates the request
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(authn.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := reqcontext.Get(r.Context())
		if !ok {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		respondWithJSON(w, http.StatusOK, WhoamiResponse{
			TenantDomain:           rc.TenantDomain(),
			Username:               rc.Username(),
			UserID:                 rc.UserID(),
			ResidentOrganizationID: rc.ResidentOrganizationID(),
		})
	}
}
