package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

const defaultItemsPerPage = 50

// Config holds all application configuration
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Counts  CountsConfig  `mapstructure:"counts"`
	Account AccountConfig `mapstructure:"account"`
	Sources SourcesConfig `mapstructure:"sources"`
	Compat  CompatConfig  `mapstructure:"compat"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LibraryConfig holds list preferences
type LibraryConfig struct {
	ItemsPerPage int      `mapstructure:"items_per_page"`
	ShowSteam    bool     `mapstructure:"show_steam"`
	ShowGOG      bool     `mapstructure:"show_gog"`
	ShowCustom   bool     `mapstructure:"show_custom"`
	Filter       []string `mapstructure:"filter"` // e.g. ["GAME", "SHARED"]
	FuzzySearch  bool     `mapstructure:"fuzzy_search"`
}

// CountsConfig holds the last known per-source counts, used for skeleton sizing
type CountsConfig struct {
	SteamGames        int `mapstructure:"steam_games"`
	GOGGames          int `mapstructure:"gog_games"`
	GOGInstalledGames int `mapstructure:"gog_installed_games"`
	CustomGames       int `mapstructure:"custom_games"`
}

// AccountConfig identifies the current user for ownership checks
type AccountConfig struct {
	UserID    int   `mapstructure:"user_id"`    // 0 = unknown
	FamilyIDs []int `mapstructure:"family_ids"` // Family sharing co-owners
}

// SourcesConfig locates the catalog providers
type SourcesConfig struct {
	CatalogDB     string        `mapstructure:"catalog_db"`     // SQLite catalog for Steam/GOG
	PollInterval  time.Duration `mapstructure:"poll_interval"`  // Catalog change polling
	CustomRoot    string        `mapstructure:"custom_root"`    // Every subfolder is a candidate game
	CustomFolders []string      `mapstructure:"custom_folders"` // Manually added game folders
	InstallDir    string        `mapstructure:"install_dir"`    // Download directory for install lookup
}

// CompatConfig configures the remote compatibility service
type CompatConfig struct {
	URL         string        `mapstructure:"url"`
	Identity    string        `mapstructure:"identity"` // GPU renderer name
	Timeout     time.Duration `mapstructure:"timeout"`
	BatchSize   int           `mapstructure:"batch_size"`
	Concurrency int           `mapstructure:"concurrency"`
	RetryMax    int           `mapstructure:"retry_max"`
}

// CacheConfig holds the durable cache location
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			ItemsPerPage: defaultItemsPerPage,
			ShowSteam:    true,
			ShowGOG:      true,
			ShowCustom:   true,
			Filter:       defaultFilter(),
		},
		Sources: SourcesConfig{
			PollInterval: 5 * time.Second,
		},
		Compat: CompatConfig{
			URL:         "https://api.gamenative.app/api/game-runs",
			Timeout:     10 * time.Second,
			BatchSize:   25,
			Concurrency: 2,
			RetryMax:    2,
		},
		Cache: CacheConfig{
			Path: defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

func defaultFilter() []string {
	return []string{"GAME", "SHARED"}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gamelib", "gamelib.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "gamelib", "gamelib.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gamelib")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gamelib")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "gamelib", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "gamelib", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

func loadConfig(v *viper.Viper, configDir string) (*Config, error) {
	cfg := DefaultConfig()
	// Decoding merges into existing slices, so start from nil.
	cfg.Library.Filter = nil

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides
	v.SetEnvPrefix("GAMELIB")
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Library.ItemsPerPage <= 0 {
		cfg.Library.ItemsPerPage = defaultItemsPerPage
	}
	if !v.IsSet("library.filter") {
		cfg.Library.Filter = defaultFilter()
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, defaultConfigPath())
}

func saveConfig(v *viper.Viper, cfg *Config, configDir string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("library.items_per_page", cfg.Library.ItemsPerPage)
	v.Set("library.show_steam", cfg.Library.ShowSteam)
	v.Set("library.show_gog", cfg.Library.ShowGOG)
	v.Set("library.show_custom", cfg.Library.ShowCustom)
	v.Set("library.filter", cfg.Library.Filter)
	v.Set("library.fuzzy_search", cfg.Library.FuzzySearch)

	v.Set("counts.steam_games", cfg.Counts.SteamGames)
	v.Set("counts.gog_games", cfg.Counts.GOGGames)
	v.Set("counts.gog_installed_games", cfg.Counts.GOGInstalledGames)
	v.Set("counts.custom_games", cfg.Counts.CustomGames)

	v.Set("account.user_id", cfg.Account.UserID)
	v.Set("account.family_ids", cfg.Account.FamilyIDs)

	v.Set("sources.catalog_db", cfg.Sources.CatalogDB)
	v.Set("sources.poll_interval", cfg.Sources.PollInterval.String())
	v.Set("sources.custom_root", cfg.Sources.CustomRoot)
	v.Set("sources.custom_folders", cfg.Sources.CustomFolders)
	v.Set("sources.install_dir", cfg.Sources.InstallDir)

	v.Set("compat.url", cfg.Compat.URL)
	v.Set("compat.identity", cfg.Compat.Identity)
	v.Set("compat.timeout", cfg.Compat.Timeout.String())
	v.Set("compat.batch_size", cfg.Compat.BatchSize)
	v.Set("compat.concurrency", cfg.Compat.Concurrency)
	v.Set("compat.retry_max", cfg.Compat.RetryMax)

	v.Set("cache.path", cfg.Cache.Path)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCache removes all cached data
func ClearCache(cfg *Config) error {
	if err := os.RemoveAll(ExpandPath(cfg.Cache.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
