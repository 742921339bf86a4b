package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Google GoogleConfig `yaml:"google"`
	Drive  DriveConfig  `yaml:"drive"`
	Upload UploadConfig `yaml:"upload"`
	Share  ShareConfig  `yaml:"share"`
	Serve  ServeConfig  `yaml:"serve"`
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SessionFile     string `yaml:"session_file"`
}

// DriveConfig contains application folder settings
type DriveConfig struct {
	FolderName string `yaml:"folder_name"`

	// FolderConflict decides what happens when multiple application
	// folders exist: "oldest" picks the earliest-created, "fail" errors.
	FolderConflict string `yaml:"folder_conflict"`

	// OptimisticWrites enables the modification-time precondition on
	// comment document writes.
	OptimisticWrites bool `yaml:"optimistic_writes"`
}

// UploadConfig contains upload pipeline settings
type UploadConfig struct {
	TimeoutMinutes int `yaml:"timeout_minutes"`
}

// ShareConfig contains guest share link settings
type ShareConfig struct {
	Secret       string `yaml:"secret"`
	BaseURL      string `yaml:"base_url"`
	LinkTTLHours int    `yaml:"link_ttl_hours"`
}

// ServeConfig contains guest review server settings
type ServeConfig struct {
	ListenAddr         string `yaml:"listen_addr"`
	GuestRatePerMinute int    `yaml:"guest_rate_per_minute"`
}

// Default returns a configuration populated with the standard defaults.
func Default() *Config {
	return &Config{
		Google: GoogleConfig{
			CredentialsFile: "credentials.json",
			SessionFile:     ".videoverse/session.json",
		},
		Drive: DriveConfig{
			FolderName:     "VideoVerse",
			FolderConflict: "oldest",
		},
		Upload: UploadConfig{
			TimeoutMinutes: 30,
		},
		Share: ShareConfig{
			BaseURL:      "http://localhost:8080",
			LinkTTLHours: 72,
		},
		Serve: ServeConfig{
			ListenAddr:         ":8080",
			GuestRatePerMinute: 10,
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Unset fields fall back to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
