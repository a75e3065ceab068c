// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/blinklabs-io/govrealm/database/plugin"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "govrealm.config"

const (
	DefaultBlobPlugin      = "badger"
	DefaultMetadataPlugin  = "sqlite"
	DefaultShutdownTimeout = "30s"
	envPrefix              = "GOVREALM"
)

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

type tempConfig struct {
	Config   yaml.Node       `yaml:"config,omitempty"`
	Database *databaseConfig `yaml:"database,omitempty"`
}

type databaseConfig struct {
	Blob     map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

type Config struct {
	DatabasePath    string `yaml:"databasePath"    split_words:"true"`
	BlobPlugin      string `yaml:"blobPlugin"      envconfig:"DATABASE_BLOB_PLUGIN"`
	MetadataPlugin  string `yaml:"metadataPlugin"  envconfig:"DATABASE_METADATA_PLUGIN"`
	BindAddr        string `yaml:"bindAddr"        split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout" split_words:"true"`
	ApiPort         uint   `yaml:"apiPort"         split_words:"true"`
	MetricsPort     uint   `yaml:"metricsPort"     split_words:"true"`
	Tracing         bool   `yaml:"tracing"`
	TracingStdout   bool   `yaml:"tracingStdout"   split_words:"true"`
}

// DefaultConfig returns a config populated with default values
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:    ".govrealm",
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		BindAddr:        "0.0.0.0",
		ShutdownTimeout: DefaultShutdownTimeout,
		ApiPort:         8080,
		MetricsPort:     12798,
	}
}

// ShutdownTimeoutDuration parses the configured shutdown timeout
func (c *Config) ShutdownTimeoutDuration() (time.Duration, error) {
	if c.ShutdownTimeout == "" {
		return time.ParseDuration(DefaultShutdownTimeout)
	}
	ret, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	return ret, nil
}

// ApiListenAddress returns the HTTP API listen address, or an empty
// string when the API is disabled
func (c *Config) ApiListenAddress() string {
	if c.ApiPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.BindAddr, c.ApiPort)
}

// LoadConfig builds the config from defaults, the YAML config file and
// the environment, in that order of precedence. Plugin options found in
// the file and the environment are applied to the plugin registry.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	if configFile == "" {
		// Check for config file in this path: ~/.govrealm/govrealm.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".govrealm", "govrealm.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}
		// Try to check for /etc/govrealm/govrealm.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/govrealm/govrealm.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}
	if configFile != "" {
		if err := loadConfigFile(configFile, cfg); err != nil {
			return nil, err
		}
	}
	// Process environment variables
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Process plugin environment variables
	if err := plugin.ProcessEnvVars(envPrefix); err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}
	if _, err := cfg.ShutdownTimeoutDuration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(configFile string, cfg *Config) error {
	buf, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	// First unmarshal into temp config to handle plugin sections
	var tempCfg tempConfig
	if err := yaml.Unmarshal(buf, &tempCfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	// Overlay config values onto existing defaults
	if !tempCfg.Config.IsZero() {
		if err := tempCfg.Config.Decode(cfg); err != nil {
			return fmt.Errorf("error parsing config section: %w", err)
		}
	}
	if tempCfg.Database == nil {
		return nil
	}
	pluginConfig := make(map[string]map[string]map[string]any)
	if tempCfg.Database.Blob != nil {
		name, opts := splitPluginSection(tempCfg.Database.Blob)
		if name != "" {
			cfg.BlobPlugin = name
		}
		pluginConfig[plugin.PluginTypeName(plugin.PluginTypeBlob)] = opts
	}
	if tempCfg.Database.Metadata != nil {
		name, opts := splitPluginSection(tempCfg.Database.Metadata)
		if name != "" {
			cfg.MetadataPlugin = name
		}
		pluginConfig[plugin.PluginTypeName(plugin.PluginTypeMetadata)] = opts
	}
	if err := plugin.ProcessConfig(pluginConfig); err != nil {
		return fmt.Errorf("error processing plugin config: %w", err)
	}
	return nil
}

// splitPluginSection extracts the selected plugin name and the
// per-plugin option maps from a database section
func splitPluginSection(section map[string]any) (string, map[string]map[string]any) {
	var name string
	opts := make(map[string]map[string]any)
	for k, v := range section {
		if k == "plugin" {
			if pluginName, ok := v.(string); ok {
				name = pluginName
			}
			continue
		}
		switch val := v.(type) {
		case map[string]any:
			opts[k] = maps.Clone(val)
		case map[any]any:
			// Convert map[any]any to map[string]any
			tmp := make(map[string]any, len(val))
			for vk, vv := range val {
				if keyStr, ok := vk.(string); ok {
					tmp[keyStr] = vv
				}
			}
			opts[k] = tmp
		default:
			fmt.Fprintf(
				os.Stderr,
				"warning: skipping database config entry %q: expected map, got %T\n",
				k,
				v,
			)
		}
	}
	return name, opts
}
