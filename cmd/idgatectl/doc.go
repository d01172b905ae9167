// Package main provides the idgate identity gateway CLI.
//
// idgate is a post-authentication identity normalization service for
// multi-tenant, multi-organization deployments. Authentication strategies
// decide whether a request is authenticated; the identity resolver then
// decides which username, canonical user id and organization scope that
// success publishes to downstream authorization.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/authcore: authentication pipeline, handlers and registry
//   - pkg/strategy: authentication strategies (basic, bearer)
//   - pkg/resolver: post-authentication identity resolution
//   - pkg/directory: tenant and organization directories
//   - pkg/userstore: per-tenant user store gateways
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	idgatectl db migrate
//
//	# Create a tenant and a user
//	idgatectl tenant create acme.com
//	idgatectl user create acme.com alice --user-id uid-1 --password s3cret
//
//	# Start the server
//	idgatectl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - IDGATE_STRATEGIES: Comma-separated list of enabled strategies
//   - IDGATE_LISTEN_ADDRESS: Server listen address (default: :8080)
//   - IDGATE_LOG_LEVEL: Set to "debug" for SQL query logging
package main
