// Package userstore defines the per-tenant user store contracts consumed by
// identity resolution: a RealmService locates a tenant's realm, and the
// realm's Gateway fetches canonical user records by user id. The gorm
// subpackage provides the database-backed implementations.
//
// Absence is modeled as (nil, nil) in both contracts. A tenant with no realm
// and a user id with no directory entry are expected states the resolver
// treats as silent no-ops; only genuine lookup failures surface as errors.
package userstore
