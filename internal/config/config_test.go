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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blinklabs-io/govrealm/database/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPluginOptions struct {
	dataDir   string
	cacheSize uint64
	gc        bool
}

func init() {
	plugin.Register(plugin.PluginEntry{
		Type:        plugin.PluginTypeBlob,
		Name:        "cfgtest",
		Description: "config test plugin",
		Options: []plugin.PluginOption{
			{
				Name:         "data-dir",
				Type:         plugin.PluginOptionTypeString,
				DefaultValue: "",
				Dest:         &testPluginOptions.dataDir,
			},
			{
				Name:         "cache-size",
				Type:         plugin.PluginOptionTypeUint,
				DefaultValue: uint64(0),
				Dest:         &testPluginOptions.cacheSize,
			},
			{
				Name:         "gc",
				Type:         plugin.PluginOptionTypeBool,
				DefaultValue: false,
				Dest:         &testPluginOptions.gc,
			},
		},
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "govrealm.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o600))
	return tmpFile
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	timeout, err := cfg.ShutdownTimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.ApiListenAddress())
}

func TestLoadConfigFile(t *testing.T) {
	cfgFile := writeConfigFile(t, `
config:
  databasePath: /var/lib/govrealm
  bindAddr: 127.0.0.1
  apiPort: 9000
  metricsPort: 9001
  shutdownTimeout: 5s
  tracing: true
`)
	cfg, err := LoadConfig(cfgFile)
	require.NoError(t, err)
	expected := &Config{
		DatabasePath:    "/var/lib/govrealm",
		BlobPlugin:      DefaultBlobPlugin,
		MetadataPlugin:  DefaultMetadataPlugin,
		BindAddr:        "127.0.0.1",
		ShutdownTimeout: "5s",
		ApiPort:         9000,
		MetricsPort:     9001,
		Tracing:         true,
	}
	assert.Equal(t, expected, cfg)
	assert.Equal(t, "127.0.0.1:9000", cfg.ApiListenAddress())
}

func TestLoadConfigDatabaseSection(t *testing.T) {
	cfgFile := writeConfigFile(t, `
database:
  blob:
    plugin: cfgtest
    cfgtest:
      cache-size: 1024
      gc: true
  metadata:
    plugin: postgres
`)
	cfg, err := LoadConfig(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "cfgtest", cfg.BlobPlugin)
	assert.Equal(t, "postgres", cfg.MetadataPlugin)
	assert.Equal(t, uint64(1024), testPluginOptions.cacheSize)
	assert.True(t, testPluginOptions.gc)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	cfgFile := writeConfigFile(t, `
config:
  apiPort: 9000
`)
	t.Setenv("GOVREALM_API_PORT", "9100")
	t.Setenv("GOVREALM_DATABASE_METADATA_PLUGIN", "postgres")
	t.Setenv("GOVREALM_TRACING_STDOUT", "true")
	t.Setenv("GOVREALM_BLOB_CFGTEST_DATA_DIR", "/tmp/cfgtest")
	cfg, err := LoadConfig(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, uint(9100), cfg.ApiPort)
	assert.Equal(t, "postgres", cfg.MetadataPlugin)
	assert.True(t, cfg.TracingStdout)
	assert.Equal(t, "/tmp/cfgtest", testPluginOptions.dataDir)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	_, err = LoadConfig(writeConfigFile(t, "config: [unterminated"))
	require.Error(t, err)
	_, err = LoadConfig(writeConfigFile(t, "config:\n  shutdownTimeout: soon\n"))
	require.Error(t, err)
	_, err = LoadConfig(writeConfigFile(t, `
database:
  blob:
    cfgtest:
      cache-size: lots
`))
	require.Error(t, err)
}

func TestApiListenAddressDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApiPort = 0
	assert.Empty(t, cfg.ApiListenAddress())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	cfg := DefaultConfig()
	ctx := WithContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
