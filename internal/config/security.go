package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecurityConfig is the root of the optional security YAML. It names
// the endpoints that bypass authentication and the environment
// variable that carries the JWT signing secret.
type SecurityConfig struct {
	Security SecuritySettings `yaml:"security"`
}

// SecuritySettings holds the security section of the file.
type SecuritySettings struct {
	PublicEndpoints []string    `yaml:"public_endpoints"`
	JWT             JWTSettings `yaml:"jwt"`
}

// JWTSettings points at the env var holding the signing secret. The
// secret itself never appears in the file.
type JWTSettings struct {
	SecretEnv string `yaml:"secret_env"`
}

// LoadSecurityConfig reads and validates the security YAML at path.
// The path comes from SECURITY_CONFIG_PATH or a CLI flag, never from
// request input.
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- path originates from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg SecurityConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Security.JWT.SecretEnv == "" {
		return nil, fmt.Errorf("config validation failed: jwt secret_env is required")
	}
	return &cfg, nil
}

// GetPublicEndpoints returns the endpoints exempt from authentication.
func (c *SecurityConfig) GetPublicEndpoints() []string {
	return c.Security.PublicEndpoints
}

// GetJWTSecretEnv returns the name of the env var holding the JWT secret.
func (c *SecurityConfig) GetJWTSecretEnv() string {
	return c.Security.JWT.SecretEnv
}
