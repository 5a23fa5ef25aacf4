package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rubiojr/docsearch/pkg/core"
)

//go:embed config.toml.sample
var configTemplate string

const (
	appName                 = "docsearch"
	DefaultListen           = "localhost:8080"
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultSuggestionLimit  = 10
	DefaultOptimizeInterval = time.Hour
)

type Config struct {
	StorageDir      string   `toml:"storage_dir"`
	IndexSource     string   `toml:"index_source"`
	User            string   `toml:"user"`
	Listen          string   `toml:"listen"`
	WatchIndex      bool     `toml:"watch_index"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// RefreshInterval polls a remote index_source for changes. Zero disables
	// polling.
	RefreshInterval  Duration     `toml:"refresh_interval"`
	OptimizeInterval Duration     `toml:"optimize_interval"`
	Search           SearchConfig `toml:"search"`
}

type SearchConfig struct {
	Keywords        []string `toml:"keywords"`
	DefaultSort     string   `toml:"default_sort"`
	DefaultOrder    string   `toml:"default_order"`
	SuggestionLimit int      `toml:"suggestion_limit"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	c := &Config{StorageDir: storageDir, WatchIndex: true}
	c.applyDefaults()
	return c, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Config{WatchIndex: true}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.ShutdownTimeout.Duration == 0 {
		c.ShutdownTimeout = Duration{DefaultShutdownTimeout}
	}
	if c.OptimizeInterval.Duration == 0 {
		c.OptimizeInterval = Duration{DefaultOptimizeInterval}
	}
	if c.Search.DefaultSort == "" {
		c.Search.DefaultSort = string(core.SortByRelevance)
	}
	if c.Search.DefaultOrder == "" {
		c.Search.DefaultOrder = string(core.SortDesc)
	}
	if c.Search.SuggestionLimit <= 0 {
		c.Search.SuggestionLimit = DefaultSuggestionLimit
	}
}

// Validate checks intervals and the search defaults.
func (c *Config) Validate() error {
	if c.RefreshInterval.Duration < 0 {
		return fmt.Errorf("refresh_interval must not be negative")
	}
	if _, err := core.ParseSortBy(c.Search.DefaultSort); err != nil {
		return fmt.Errorf("search.default_sort: %w", err)
	}
	if _, err := core.ParseSortOrder(c.Search.DefaultOrder); err != nil {
		return fmt.Errorf("search.default_order: %w", err)
	}
	return nil
}

// DefaultFilters returns the filters a new session starts with.
func (c *Config) DefaultFilters() core.Filters {
	f := core.DefaultFilters()
	if by, err := core.ParseSortBy(c.Search.DefaultSort); err == nil {
		f.SortBy = by
	}
	if order, err := core.ParseSortOrder(c.Search.DefaultOrder); err == nil {
		f.SortOrder = order
	}
	return f
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/docsearch", storageDir, 1)
	return template, nil
}

// GetDefaultStorageDir returns $XDG_DATA_HOME/docsearch, creating it.
func GetDefaultStorageDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/docsearch, creating it.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
