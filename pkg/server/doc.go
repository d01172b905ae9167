// Package server provides the HTTP server for the idgate API.
//
// This package implements the HTTP server that fronts the authentication
// pipeline. It uses gorilla/mux for routing and provides middleware for
// authentication and identity resolution.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db, registry, auditor)
//	endpoints.RegisterAll(srv, publisher)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
//   - POST /authn/{tenant}/authenticate - authenticate and resolve identity
//   - GET /whoami - introspect the authenticated request context
//   - GET / - server status
//   - GET /strategies - installed and enabled authentication strategies
package server
