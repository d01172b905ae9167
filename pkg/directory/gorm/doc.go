// Package gorm provides GORM-backed implementations of the directory
// interfaces.
package gorm
