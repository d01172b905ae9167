package endpoints

import (
	"net/http"
	"os"
	"sort"

	"github.com/quorial/idgate/pkg/server"
)

// StatusResponse represents the response from the / status endpoint
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// StrategiesResponse represents the response from /strategies
type StrategiesResponse struct {
	Installed []string `json:"installed"`
	Enabled   []string `json:"enabled"`
}

// RegisterStatusEndpoints registers the status and info endpoints
func RegisterStatusEndpoints(s *server.Server) {
	registry := s.Registry

	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /strategies - List strategies (no auth required)
	s.Router.HandleFunc("/strategies", func(w http.ResponseWriter, r *http.Request) {
		installed := registry.Installed()
		enabled := make([]string, 0, len(installed))
		for _, name := range installed {
			if registry.IsEnabled(name) {
				enabled = append(enabled, name)
			}
		}
		sort.Strings(installed)
		sort.Strings(enabled)

		respondWithJSON(w, http.StatusOK, StrategiesResponse{
			Installed: installed,
			Enabled:   enabled,
		})
	}).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("IDGATE_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status:  "ok",
			Version: version,
		})
	}
}
