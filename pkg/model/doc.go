// Package model defines the database models for idgate.
//
// This package contains GORM models that map to the idgate PostgreSQL
// schema.
//
// # Core Models
//
//   - Tenant: registered tenants, keyed by numeric id with a unique domain
//   - Organization: organizations owned by a tenant
//   - User: user-store entries, keyed by opaque user id per tenant
//   - Credential: password hashes for users
//
// # Database Schema
//
// The database uses PostgreSQL with the following tables:
//
//   - tenants: tenant id and domain
//   - organizations: organization id, name and owning tenant domain
//   - users: per-tenant user entries with optional store domain
//   - credentials: password hashes keyed by tenant and username
package model
