// Package config loads tool-level settings from bakery.yml with BAKERY_*
// environment overrides. Project generation works without any config file;
// everything here is an optional default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds tool-level settings.
type Config struct {
	TemplatesDir   string   // templates.dir: primary template root
	ExtraTemplates []string // templates.extra: layered roots that shadow the primary
	Author         string   // author: default project author
	License        string   // license: default project license
	GitInit        bool     // git.init: initialize a repository after generation
}

// Load reads bakery.yml from the working directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads bakery.yml from dir, falling back to the user config
// directory. A missing file is not an error; defaults and environment
// variables still apply. Environment keys follow the config keys with
// dots replaced by underscores: templates.dir becomes BAKERY_TEMPLATES_DIR.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("bakery")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if configHome, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configHome, "bakery"))
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("BAKERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("license", "MIT")
	v.SetDefault("git.init", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read bakery.yml: %w", err)
		}
	}

	return &Config{
		TemplatesDir:   v.GetString("templates.dir"),
		ExtraTemplates: v.GetStringSlice("templates.extra"),
		Author:         v.GetString("author"),
		License:        v.GetString("license"),
		GitInit:        v.GetBool("git.init"),
	}, nil
}

// DefaultTemplatesRoot is the builtin template root used when neither flag,
// environment, nor config names one.
func DefaultTemplatesRoot() string {
	if configHome, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configHome, "bakery", "templates")
	}
	return "templates"
}

// TemplateRoots resolves the layered template roots for a run. An explicit
// flag value wins over configuration; extra roots come after the primary so
// their templates shadow builtin ones of the same name.
func (c *Config) TemplateRoots(flagDir string) []string {
	primary := flagDir
	if primary == "" {
		primary = c.TemplatesDir
	}
	if primary == "" {
		primary = DefaultTemplatesRoot()
	}
	roots := []string{primary}
	roots = append(roots, c.ExtraTemplates...)
	return roots
}
