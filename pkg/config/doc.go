// Package config loads idgate configuration from a YAML file and the
// environment.
//
// Configuration is resolved in precedence order: environment variables
// (IDGATE_*), then the config file (idgate.yml under IDGATE_CONFIG_PATH or
// /etc/idgate/config), then built-in defaults. The source of every attribute
// is tracked and reported by Attributes.
//
// The global configuration is a lazily loaded singleton; Watch reloads it
// when the config file changes on disk.
package config
