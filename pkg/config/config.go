package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/idgate/config"
	ConfigFileName    = "idgate.yml"
)

// ValidStrategies is the list of valid authentication strategy names
var ValidStrategies = []string{"basic", "bearer"}

// Config holds all idgate configuration settings
type Config struct {
	// ListenAddress is the address the HTTP server binds to
	ListenAddress string `yaml:"listen_address" json:"listen_address"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// Strategies is the list of enabled authentication strategies
	Strategies []string `yaml:"strategies" json:"strategies"`

	// StrategyPriorities overrides the selection priority per strategy
	StrategyPriorities map[string]int `yaml:"strategy_priorities" json:"strategy_priorities"`

	// BearerSigningKey is the HMAC secret for bearer token validation
	BearerSigningKey string `yaml:"bearer_signing_key" json:"-"`

	// BearerIssuer is the expected issuer claim for bearer tokens
	BearerIssuer string `yaml:"bearer_issuer" json:"bearer_issuer"`

	// BearerAudience is the expected audience claim for bearer tokens
	BearerAudience string `yaml:"bearer_audience" json:"bearer_audience"`

	// AuditLogPath is where audit records are written ("-" for stdout)
	AuditLogPath string `yaml:"audit_log_path" json:"audit_log_path"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		ListenAddress:      ":8080",
		TrustedProxies:     []string{},
		Strategies:         []string{"basic"},
		StrategyPriorities: map[string]int{},
		AuditLogPath:       "-",
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("IDGATE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"listen_address", "trusted_proxies", "strategies",
		"strategy_priorities", "bearer_signing_key", "bearer_issuer",
		"bearer_audience", "audit_log_path",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.ListenAddress != "" {
		c.ListenAddress = file.ListenAddress
		c.sources["listen_address"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if len(file.Strategies) > 0 {
		c.Strategies = file.Strategies
		c.sources["strategies"] = "file"
	}
	if len(file.StrategyPriorities) > 0 {
		c.StrategyPriorities = file.StrategyPriorities
		c.sources["strategy_priorities"] = "file"
	}
	if file.BearerSigningKey != "" {
		c.BearerSigningKey = file.BearerSigningKey
		c.sources["bearer_signing_key"] = "file"
	}
	if file.BearerIssuer != "" {
		c.BearerIssuer = file.BearerIssuer
		c.sources["bearer_issuer"] = "file"
	}
	if file.BearerAudience != "" {
		c.BearerAudience = file.BearerAudience
		c.sources["bearer_audience"] = "file"
	}
	if file.AuditLogPath != "" {
		c.AuditLogPath = file.AuditLogPath
		c.sources["audit_log_path"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("IDGATE_LISTEN_ADDRESS"); val != "" {
		c.ListenAddress = val
		c.sources["listen_address"] = "environment"
	}
	if val := os.Getenv("IDGATE_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("IDGATE_STRATEGIES"); val != "" {
		c.Strategies = splitAndTrim(val)
		c.sources["strategies"] = "environment"
	}
	if val := os.Getenv("IDGATE_STRATEGY_PRIORITIES"); val != "" {
		// Format: "basic=5,bearer=10"
		priorities := make(map[string]int)
		for _, pair := range splitAndTrim(val) {
			name, num, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			if i, err := strconv.Atoi(num); err == nil {
				priorities[name] = i
			}
		}
		if len(priorities) > 0 {
			c.StrategyPriorities = priorities
			c.sources["strategy_priorities"] = "environment"
		}
	}
	if val := os.Getenv("IDGATE_BEARER_SIGNING_KEY"); val != "" {
		c.BearerSigningKey = val
		c.sources["bearer_signing_key"] = "environment"
	}
	if val := os.Getenv("IDGATE_BEARER_ISSUER"); val != "" {
		c.BearerIssuer = val
		c.sources["bearer_issuer"] = "environment"
	}
	if val := os.Getenv("IDGATE_BEARER_AUDIENCE"); val != "" {
		c.BearerAudience = val
		c.sources["bearer_audience"] = "environment"
	}
	if val := os.Getenv("IDGATE_AUDIT_LOG_PATH"); val != "" {
		c.AuditLogPath = val
		c.sources["audit_log_path"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsStrategyEnabled checks if an authentication strategy is enabled
func (c *Config) IsStrategyEnabled(strategy string) bool {
	for _, s := range c.Strategies {
		if s == strategy {
			return true
		}
	}
	return false
}

// StrategyPriority returns the configured priority for a strategy, or
// fallback when none is configured
func (c *Config) StrategyPriority(strategy string, fallback int) int {
	if p, ok := c.StrategyPriorities[strategy]; ok {
		return p
	}
	return fallback
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	validStrategies := make(map[string]bool)
	for _, s := range ValidStrategies {
		validStrategies[s] = true
	}
	for _, s := range c.Strategies {
		if !validStrategies[s] {
			return fmt.Errorf("invalid strategy: %s", s)
		}
	}
	for name, p := range c.StrategyPriorities {
		if !validStrategies[name] {
			return fmt.Errorf("priority configured for unknown strategy: %s", name)
		}
		if p < 0 {
			return fmt.Errorf("negative priority for strategy %s", name)
		}
	}

	if c.IsStrategyEnabled("bearer") && c.BearerSigningKey == "" {
		return fmt.Errorf("bearer strategy requires bearer_signing_key")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "listen_address", Value: c.ListenAddress, Source: c.Source("listen_address")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "strategies", Value: strings.Join(c.Strategies, ","), Source: c.Source("strategies")},
		{Name: "strategy_priorities", Value: formatPriorities(c.StrategyPriorities), Source: c.Source("strategy_priorities")},
		{Name: "bearer_signing_key", Value: maskSecret(c.BearerSigningKey), Source: c.Source("bearer_signing_key")},
		{Name: "bearer_issuer", Value: c.BearerIssuer, Source: c.Source("bearer_issuer")},
		{Name: "bearer_audience", Value: c.BearerAudience, Source: c.Source("bearer_audience")},
		{Name: "audit_log_path", Value: c.AuditLogPath, Source: c.Source("audit_log_path")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatPriorities(priorities map[string]int) string {
	parts := make([]string, 0, len(priorities))
	for _, name := range ValidStrategies {
		if p, ok := priorities[name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", name, p))
		}
	}
	return strings.Join(parts, ",")
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
