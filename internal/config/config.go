// Package config loads the OAuth application settings the tutorial
// binaries need. Settings live in a Java-properties style key=value file
// and are read once at startup; the resulting Config is never mutated.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/magiconair/properties"
)

// DefaultPath is where the binaries look for settings unless --config
// points elsewhere.
const DefaultPath = "oauth.properties"

// Recognised keys.
const (
	keyClientID     = "app.clientId"
	keyTenantID     = "app.tenantId"
	keyAuthTenant   = "app.authTenant"
	keyClientSecret = "app.clientSecret"
	keyUserScopes   = "app.graphUserScopes"
)

// ErrConfigMissing indicates a required key is absent from the settings
// file.
var ErrConfigMissing = errors.New("config: required key missing")

// MissingKeyError names the absent key.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("config: required key %q missing", e.Key)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrConfigMissing
}

// Config holds the OAuth application settings.
type Config struct {
	// ClientID is the OAuth application (client) identifier.
	ClientID string
	// TenantID is the directory tenant. Required for app-only auth.
	TenantID string
	// AuthTenant is the tenant used for user sign-in, often "common".
	AuthTenant string
	// ClientSecret is the application secret for app-only auth.
	ClientSecret string
	// UserScopes are the permission scopes requested for user sign-in,
	// in the order they appear in the settings file.
	UserScopes []string
}

// Load reads a properties file. Comment lines ("#") and backslash escapes
// follow the canonical properties format.
func Load(path string) (*Config, error) {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	cfg := &Config{
		ClientID:     props.GetString(keyClientID, ""),
		TenantID:     props.GetString(keyTenantID, ""),
		AuthTenant:   props.GetString(keyAuthTenant, ""),
		ClientSecret: props.GetString(keyClientSecret, ""),
	}
	for _, scope := range strings.Split(props.GetString(keyUserScopes, ""), ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			cfg.UserScopes = append(cfg.UserScopes, scope)
		}
	}
	return cfg, nil
}

// ForUserAuth validates the keys the device-code flow needs.
func (c *Config) ForUserAuth() error {
	if c.ClientID == "" {
		return &MissingKeyError{Key: keyClientID}
	}
	if len(c.UserScopes) == 0 {
		return &MissingKeyError{Key: keyUserScopes}
	}
	return nil
}

// ForAppAuth validates the keys the client-credentials flow needs.
func (c *Config) ForAppAuth() error {
	if c.ClientID == "" {
		return &MissingKeyError{Key: keyClientID}
	}
	if c.TenantID == "" {
		return &MissingKeyError{Key: keyTenantID}
	}
	if c.ClientSecret == "" {
		return &MissingKeyError{Key: keyClientSecret}
	}
	return nil
}

// SignInTenant returns the tenant to sign users in against, defaulting to
// "common" so any tenant is accepted.
func (c *Config) SignInTenant() string {
	if c.AuthTenant != "" {
		return c.AuthTenant
	}
	if c.TenantID != "" {
		return c.TenantID
	}
	return "common"
}
