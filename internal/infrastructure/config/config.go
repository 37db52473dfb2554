// Package config provides configuration loading for the permalink-open application.
// It handles loading the recognized link hosts and other application settings from
// environment variables, HashiCorp Vault and local files.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/vault"
)

// Environment variable names.
const (
	// EnvLogLevel is the log level (debug, info, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"

	// EnvRemote is the remote that supplies the repository owner and name.
	EnvRemote = "PERMALINK_REMOTE"

	// EnvContextLines is the number of lines shown around a linked range in blame views.
	EnvContextLines = "PERMALINK_CONTEXT_LINES"

	// EnvEditor is the editor command line; falls back to VISUAL then EDITOR.
	EnvEditor = "PERMALINK_EDITOR"

	// EnvHostsConfig is the path to a local JSON file listing enterprise hosts.
	EnvHostsConfig = "PERMALINK_HOSTS_CONFIG"

	// EnvVaultHostsConfigPath is the path in Vault KV where the host list is stored.
	EnvVaultHostsConfigPath = "VAULT_HOSTS_CONFIG_PATH"

	// EnvVaultHostsConfigMount is the Vault KV mount point (defaults to "secret").
	EnvVaultHostsConfigMount = "VAULT_HOSTS_CONFIG_MOUNT"
)

// Default values.
const (
	DefaultLogLevel        = "info"
	DefaultLogAppName      = "permalink-open"
	DefaultRemote          = "origin"
	DefaultContextLines    = 3
	DefaultVaultHostsMount = "secret"
)

// Configuration errors.
var (
	// ErrHostsConfigNotFound indicates the hosts config file does not exist.
	ErrHostsConfigNotFound = errors.New("hosts configuration file not found")

	// ErrHostsConfigInvalid indicates the hosts config could not be decoded.
	ErrHostsConfigInvalid = errors.New("hosts configuration is invalid")

	// ErrInvalidContextLines indicates PERMALINK_CONTEXT_LINES is not a non-negative integer.
	ErrInvalidContextLines = errors.New("context lines must be a non-negative integer")

	// ErrVaultClientFailed indicates failure to create or authenticate with Vault.
	ErrVaultClientFailed = errors.New("failed to create Vault client")

	// ErrVaultSecretNotFound indicates the secret was not found in Vault.
	ErrVaultSecretNotFound = errors.New("hosts configuration not found in Vault")
)

// VaultClient defines the interface for Vault operations.
// This interface allows for dependency injection and testing.
type VaultClient interface {
	// GetKVSecret retrieves a secret from Vault's KV v2 secrets engine.
	GetKVSecret(ctx context.Context, path, mount string) (map[string]interface{}, error)
}

// VaultClientFactory creates a VaultClient using AppRole authentication.
// This is the default factory used in production.
type VaultClientFactory func(ctx context.Context) (VaultClient, error)

// DefaultVaultClientFactory creates a VaultClient using goLibMyCarrier/vault with AppRole auth.
func DefaultVaultClientFactory(ctx context.Context) (VaultClient, error) {
	// Uses: VAULT_ADDRESS, VAULT_ROLE_ID, VAULT_SECRET_ID
	vaultConfig, err := vault.VaultLoadConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultClientFailed, err)
	}

	client, err := vault.CreateVaultClient(ctx, vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultClientFailed, err)
	}

	return client, nil
}

// Config holds all application configuration.
type Config struct {
	// Hosts lists enterprise hosts recognized in addition to github.com.
	Hosts []string

	// Remote is the remote that supplies the repository owner and name.
	Remote string

	// Editor is the editor command line. Empty means print the location instead.
	Editor string

	// ContextLines is the number of lines shown around a linked range in blame views.
	ContextLines int

	// LogLevel is the logging level (debug, info, error).
	LogLevel string

	// LogAppName is the application name for log context.
	LogAppName string
}

// hostsFile is the on-disk shape of the hosts configuration.
type hostsFile struct {
	Hosts []string `json:"hosts"`
}

// Load loads the application configuration from environment variables.
// Enterprise hosts are loaded from Vault (preferred) or a local file (fallback);
// neither is required.
//
// For Vault loading, requires:
//   - VAULT_ADDRESS: Vault server address
//   - VAULT_ROLE_ID: AppRole role ID
//   - VAULT_SECRET_ID: AppRole secret ID
//   - VAULT_HOSTS_CONFIG_PATH: Path to the secret in Vault
//   - VAULT_HOSTS_CONFIG_MOUNT: KV mount point (optional, defaults to "secret")
//
// For file loading (fallback):
//   - PERMALINK_HOSTS_CONFIG: Path to local JSON file
func Load() (*Config, error) {
	return LoadWithVaultClient(context.Background(), nil)
}

// LoadWithVaultClient loads configuration using the provided VaultClient factory.
// If vaultClientFactory is nil, DefaultVaultClientFactory is used.
// This function enables dependency injection for testing.
func LoadWithVaultClient(ctx context.Context, vaultClientFactory VaultClientFactory) (*Config, error) {
	hosts, err := loadHosts(ctx, vaultClientFactory)
	if err != nil {
		return nil, err
	}

	contextLines := DefaultContextLines
	if v := os.Getenv(EnvContextLines); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidContextLines, v)
		}
		contextLines = n
	}

	logSettings := LoadLogSettings()

	return &Config{
		Hosts:        hosts,
		Remote:       getenvDefault(EnvRemote, DefaultRemote),
		Editor:       editorFromEnv(),
		ContextLines: contextLines,
		LogLevel:     logSettings.Level,
		LogAppName:   logSettings.AppName,
	}, nil
}

// LogSettings holds the logger configuration.
type LogSettings struct {
	// Level is the logging level (debug, info, error).
	Level string

	// AppName names the logger.
	AppName string
}

// LoadLogSettings reads LOG_LEVEL and LOG_APP_NAME with their defaults.
// It never fails, so a logger can be built before the rest of the
// configuration is loaded and even when that load fails.
func LoadLogSettings() LogSettings {
	return LogSettings{
		Level:   getenvDefault(EnvLogLevel, DefaultLogLevel),
		AppName: getenvDefault(EnvLogAppName, DefaultLogAppName),
	}
}

// editorFromEnv picks PERMALINK_EDITOR, then VISUAL, then EDITOR.
func editorFromEnv() string {
	for _, key := range []string{EnvEditor, "VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadHosts loads the host list from Vault when configured, otherwise from the
// local file when configured, otherwise returns nil.
func loadHosts(ctx context.Context, vaultClientFactory VaultClientFactory) ([]string, error) {
	if vaultPath := os.Getenv(EnvVaultHostsConfigPath); vaultPath != "" {
		return loadHostsFromVault(ctx, vaultClientFactory, vaultPath)
	}

	if path := os.Getenv(EnvHostsConfig); path != "" {
		return loadHostsFromFile(path)
	}

	return nil, nil
}

// loadHostsFromVault loads the host list from Vault KV v2.
func loadHostsFromVault(ctx context.Context, vaultClientFactory VaultClientFactory, path string) ([]string, error) {
	if vaultClientFactory == nil {
		vaultClientFactory = DefaultVaultClientFactory
	}

	client, err := vaultClientFactory(ctx)
	if err != nil {
		return nil, err
	}

	mount := getenvDefault(EnvVaultHostsConfigMount, DefaultVaultHostsMount)

	secretData, err := client.GetKVSecret(ctx, path, mount)
	if err != nil {
		return nil, fmt.Errorf("%w at path %s: %w", ErrVaultSecretNotFound, path, err)
	}

	return parseHostsFromVault(secretData)
}

// parseHostsFromVault reads the "hosts" key of a Vault secret.
// Supports three formats:
// 1. A list of strings
// 2. A JSON array string
// 3. A comma-separated string
func parseHostsFromVault(secretData map[string]interface{}) ([]string, error) {
	raw, ok := secretData["hosts"]
	if !ok {
		return nil, fmt.Errorf("%w: secret has no \"hosts\" key", ErrHostsConfigInvalid)
	}

	switch v := raw.(type) {
	case []interface{}:
		hosts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: host entry %v is not a string", ErrHostsConfigInvalid, item)
			}
			hosts = append(hosts, s)
		}
		return cleanHosts(hosts), nil
	case string:
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var hosts []string
			if err := json.Unmarshal([]byte(v), &hosts); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrHostsConfigInvalid, err)
			}
			return cleanHosts(hosts), nil
		}
		return cleanHosts(strings.Split(v, ",")), nil
	default:
		return nil, fmt.Errorf("%w: unsupported \"hosts\" type %T", ErrHostsConfigInvalid, raw)
	}
}

// loadHostsFromFile loads the host list from the specified JSON file.
func loadHostsFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrHostsConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read hosts config: %w", err)
	}

	var file hostsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHostsConfigInvalid, err)
	}

	return cleanHosts(file.Hosts), nil
}

// cleanHosts trims, lowercases and drops empty entries.
func cleanHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			out = append(out, h)
		}
	}
	return out
}
