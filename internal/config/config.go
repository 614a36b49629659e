// Package config holds the mdplan settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the contents of .mdplan/config.yaml.
type Config struct {
	Document        string   `yaml:"document"`
	BackupDir       string   `yaml:"backup_dir"`
	MaxBackups      int      `yaml:"max_backups"`
	IndexPath       string   `yaml:"index_path"`
	LogCalls        bool     `yaml:"log_calls"`
	DefaultSections []string `yaml:"default_sections"`
}

// Keys are the setting names shared by the file, MDPLAN_* variables and
// flags.
const (
	KeyDocument        = "document"
	KeyBackupDir       = "backup_dir"
	KeyMaxBackups      = "max_backups"
	KeyIndexPath       = "index_path"
	KeyLogCalls        = "log_calls"
	KeyDefaultSections = "default_sections"
)

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Document:        "project.md",
		BackupDir:       "./backups",
		MaxBackups:      10,
		IndexPath:       "~/.mdplan/index.db",
		LogCalls:        false,
		DefaultSections: []string{"Ideas", "Todo", "In Progress", "Done"},
	}
}

// LoadFrom reads a yaml file over the defaults. Unknown keys are rejected so
// typos do not go unnoticed.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode reads yaml into cfg, keeping the values of absent keys.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Encode writes cfg as yaml.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Document) == "" {
		return fmt.Errorf("document path is required")
	}
	if c.MaxBackups < 0 {
		return fmt.Errorf("max_backups must not be negative, got %d", c.MaxBackups)
	}
	return nil
}

// Resolved returns a copy with "~/" expanded in path settings.
func (c Config) Resolved() (Config, error) {
	var err error
	for _, p := range []*string{&c.Document, &c.BackupDir, &c.IndexPath} {
		if *p, err = ExpandHome(*p); err != nil {
			return c, err
		}
	}
	return c, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, rest), nil
}
