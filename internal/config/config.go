// Package config reads the optional sparkify.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Database           string `yaml:"database"`
	ManagementDatabase string `yaml:"management_database,omitempty"`
	SSLMode            string `yaml:"sslmode"`
	AuthMethod         string `yaml:"auth_method,omitempty"`
	AzureTenantID      string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID      string `yaml:"azure_client_id,omitempty"`
	AWSRegion          string `yaml:"aws_region,omitempty"`
	GoogleInstance     string `yaml:"google_instance,omitempty"`
}

// SourcesConfig names the song and log data roots. Relative paths are
// resolved against the directory holding the config file.
type SourcesConfig struct {
	SongData string `yaml:"song_data"`
	LogData  string `yaml:"log_data"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Sources    SourcesConfig    `yaml:"sources"`
	Timeout    string           `yaml:"timeout"`

	dir string
}

const ConfigFileName = "sparkify.yaml"

func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	cfg.dir = dir
	return &cfg, nil
}

// TimeoutDuration parses Timeout. An empty value means no limit.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c == nil || c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in %s: %w", c.Timeout, ConfigFileName, sparkify.ErrInvalidConfig)
	}
	return d, nil
}

// SourceList returns the song then log sources, substituting the defaults
// for roots the file leaves empty. A nil config yields the defaults.
func (c *ProjectConfig) SourceList() []sparkify.Source {
	sources := sparkify.DefaultSources()
	if c == nil {
		return sources
	}
	if c.Sources.SongData != "" {
		sources[0].Dir = c.resolve(c.Sources.SongData)
	}
	if c.Sources.LogData != "" {
		sources[1].Dir = c.resolve(c.Sources.LogData)
	}
	return sources
}

func (c *ProjectConfig) resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
