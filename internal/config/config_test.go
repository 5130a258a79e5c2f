/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	configFile := filepath.Join(t.TempDir(), "hostinspector.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
listen-address: 127.0.0.1:9000
app:
  display-name: From File
  identifier: com.example.file
frontend:
  burst: 7
  ping-period: 3s
`), 0600))

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, AddFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--app-display-name", "From Flag", "--frontend-messages-per-second", "25"}))

	cfg, err := Load(v, configFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress)
	assert.Equal(t, "From Flag", cfg.App.DisplayName)
	assert.Equal(t, "com.example.file", cfg.App.Identifier)
	assert.Equal(t, 7, cfg.Frontend.Burst)
	assert.Equal(t, 3*time.Second, cfg.Frontend.PingPeriod)
	assert.InDelta(t, 25.0, cfg.Frontend.MessagesPerSecond, 0.001)
}

func TestLoadEnvironment(t *testing.T) {
	// Not parallel: modifies the environment.
	t.Setenv("HOSTINSPECTOR_APP_PLATFORM", "test-os")
	t.Setenv("HOSTINSPECTOR_FRONTEND_PING_PERIOD", "0s")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "test-os", cfg.App.Platform)
	assert.Equal(t, time.Duration(0), cfg.Frontend.PingPeriod)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.ListenAddress = "no-port"
	cfg.Frontend.Burst = -1
	cfg.Frontend.PingPeriod = -time.Second
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyListenAddress)
	assert.Contains(t, err.Error(), KeyFrontendBurst)
	assert.Contains(t, err.Error(), KeyFrontendPingPeriod)
}

func TestServerConfigAndMetadata(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Frontend.MessagesPerSecond = 10

	serverConfig := cfg.ServerConfig()
	assert.Equal(t, cfg.ListenAddress, serverConfig.ListenAddress)
	assert.InDelta(t, 10.0, serverConfig.MessagesPerSecond, 0.001)
	assert.Equal(t, "hostinspector", serverConfig.ProductName)

	metadata := cfg.HostMetadata("1.0.0")
	assert.Equal(t, cfg.App.DisplayName, metadata.AppDisplayName)
	assert.Equal(t, "1.0.0", metadata.Version)
	assert.Equal(t, integrationName, metadata.IntegrationName)
}
