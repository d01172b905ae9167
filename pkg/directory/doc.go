// Package directory defines the organization and tenant lookup contracts
// consumed by identity resolution. The gorm subpackage provides the
// database-backed implementations.
package directory
