package yoloedit

// Runtime configuration for the editor shell.

import (
	"encoding/json"
	"os"
)

// Config holds dataset and editor settings. Fields may be loaded from a JSON
// file and overridden by command-line flags.
type Config struct {
	LabelExt      string `json:"label_ext"`      // Label file extension, including the dot.
	CacheCapacity int    `json:"cache_capacity"` // Decoded-image cache size.
	BackupOnSave  bool   `json:"backup_on_save"` // Keep a .bak of each label file on save.
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		LabelExt:      ".txt",
		CacheCapacity: DefaultCacheCapacity,
		BackupOnSave:  false,
	}
}

// Validate normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.LabelExt == "" {
		c.LabelExt = ".txt"
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = DefaultCacheCapacity
	}
	return nil
}

// LoadConfig attempts to read configuration from the given JSON file path. If
// the file does not exist it returns DefaultConfig(). On JSON error it
// returns defaults with the error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(config); err != nil {
		return config, err
	}
	_ = config.Validate()
	return config, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
