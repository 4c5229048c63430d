package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pagelint"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the top-level structure of the YAML configuration file.
type File struct {
	// Defaults applies to every audited site unless overridden.
	Defaults SiteConfig `yaml:"defaults"`

	// Sites maps a page address to its specific overrides.
	Sites map[string]SiteConfig `yaml:"sites"`
}

// SiteConfig holds per-site request overrides. Useful for pages behind
// authentication that would otherwise fail the fetch.
type SiteConfig struct {
	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"user_agent"`

	// Headers are additional request headers, e.g. Authorization.
	Headers map[string]string `yaml:"headers"`

	// Cookie is sent as the Cookie header when non-empty.
	Cookie string `yaml:"cookie"`
}

// LoadConfigFile loads site configurations from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .pagelint in the current directory
// 3. Look for .pagelint in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// SiteConfigFor returns the merged configuration for a target address,
// falling back to the file's defaults when no site entry matches.
func (f *File) SiteConfigFor(target string) SiteConfig {
	if f == nil {
		return SiteConfig{}
	}
	site, ok := f.Sites[target]
	if !ok {
		return f.Defaults
	}

	merged := f.Defaults
	if site.UserAgent != "" {
		merged.UserAgent = site.UserAgent
	}
	if site.Cookie != "" {
		merged.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if merged.Headers == nil {
			merged.Headers = make(map[string]string)
		}
		for k, v := range site.Headers {
			merged.Headers[k] = v
		}
	}
	return merged
}
