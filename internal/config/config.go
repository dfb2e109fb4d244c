// Package config loads lotline settings: built-in defaults, then an optional
// config.yaml in the config directory, then LOTLINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix       = "LOTLINE"
	envConfigDir    = "LOTLINE_CONFIG_DIR"
	defaultDirName  = ".lotline"
	defaultDBName   = "lotline.db"
	defaultStockKey = "STORE"

	keyDBPath      = "db_path"
	keyLogLevel    = "log.level"
	keyLogFormat   = "log.format"
	keyLogUseCases = "log.use_cases"
	keyStockStage  = "inventory.stock_stage"
	keyStrict      = "reorder.strict"
	keyUser        = "identity.user"
	keyEmail       = "identity.email"
	keyName        = "identity.name"
	keyOrg         = "identity.org"
	keyRole        = "identity.role"
)

const defaultConfigYAML = `# lotline configuration
# Every key can be overridden with a LOTLINE_ environment variable,
# e.g. LOTLINE_LOG_LEVEL=debug or LOTLINE_IDENTITY_ORG=acme.

# db_path: ~/.lotline/lotline.db

log:
  level: info
  format: text
  use_cases: false

inventory:
  stock_stage: STORE

reorder:
  strict: true

identity:
  # user: jdoe
  # email: jdoe@example.com
  # name: Jane Doe
  # org: acme
  role: member
`

type Config struct {
	DBPath    string
	Log       LogConfig
	Inventory InventoryConfig
	Reorder   ReorderConfig
	Identity  IdentityConfig
}

type LogConfig struct {
	Level    string
	Format   string
	UseCases bool
}

type InventoryConfig struct {
	// StockStage is the key of the stage counted as stock on hand.
	StockStage string
}

type ReorderConfig struct {
	Strict bool
}

// IdentityConfig is the default actor. User is the external id resolved
// to a stored user at startup.
type IdentityConfig struct {
	User  string
	Email string
	Name  string
	Org   string
	Role  string
}

// DefaultDir returns $LOTLINE_CONFIG_DIR or ~/.lotline.
func DefaultDir() (string, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// Load reads configuration from configDir, creating the directory and a
// commented default config.yaml on first run. A missing config.yaml is not
// an error.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DBPath: v.GetString(keyDBPath),
		Log: LogConfig{
			Level:    v.GetString(keyLogLevel),
			Format:   v.GetString(keyLogFormat),
			UseCases: v.GetBool(keyLogUseCases),
		},
		Inventory: InventoryConfig{StockStage: v.GetString(keyStockStage)},
		Reorder:   ReorderConfig{Strict: v.GetBool(keyStrict)},
		Identity: IdentityConfig{
			User:  v.GetString(keyUser),
			Email: v.GetString(keyEmail),
			Name:  v.GetString(keyName),
			Org:   v.GetString(keyOrg),
			Role:  v.GetString(keyRole),
		},
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(configDir, defaultDBName)
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetDefault(keyDBPath, "")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyLogUseCases, false)
	v.SetDefault(keyStockStage, defaultStockKey)
	v.SetDefault(keyStrict, true)
	v.SetDefault(keyUser, "")
	v.SetDefault(keyEmail, "")
	v.SetDefault(keyName, "")
	v.SetDefault(keyOrg, "")
	v.SetDefault(keyRole, "member")

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Validate rejects values the rest of the program cannot interpret.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", c.Log.Format)
	}
	switch strings.ToLower(c.Identity.Role) {
	case "", "member", "admin":
	default:
		return fmt.Errorf("identity.role %q: must be member or admin", c.Identity.Role)
	}
	return nil
}

// NewLogger builds the process logger from the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", s, err)
	}
	return level, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
