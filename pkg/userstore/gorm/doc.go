// Package gorm provides GORM-backed implementations of the user store
// interfaces. Each tenant's realm is a view over the shared users table
// scoped to that tenant's id.
package gorm
