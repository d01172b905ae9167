package endpoints

import (
	"github.com/quorial/idgate/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthenticateEndpoint(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterStatusEndpoints(srv)
}
