/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package config loads the inspector server configuration from flags, environment variables and an optional config file.
// Precedence, highest first: flags, HOSTINSPECTOR_* environment variables, config file, defaults.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/microsoft/hostinspector/internal/frontend"
	"github.com/microsoft/hostinspector/internal/inspector"
)

const (
	EnvPrefix = "HOSTINSPECTOR"

	KeyListenAddress             = "listen-address"
	KeyAppDisplayName            = "app.display-name"
	KeyAppIdentifier             = "app.identifier"
	KeyAppDeviceName             = "app.device-name"
	KeyAppPlatform               = "app.platform"
	KeyFrontendMessagesPerSecond = "frontend.messages-per-second"
	KeyFrontendBurst             = "frontend.burst"
	KeyFrontendPingPeriod        = "frontend.ping-period"

	integrationName = "hostinspector"
)

type Config struct {
	ListenAddress string         `mapstructure:"listen-address"`
	App           AppConfig      `mapstructure:"app"`
	Frontend      FrontendConfig `mapstructure:"frontend"`
}

type AppConfig struct {
	DisplayName string `mapstructure:"display-name"`
	Identifier  string `mapstructure:"identifier"`
	DeviceName  string `mapstructure:"device-name"`
	Platform    string `mapstructure:"platform"`
}

type FrontendConfig struct {
	MessagesPerSecond float64       `mapstructure:"messages-per-second"`
	Burst             int           `mapstructure:"burst"`
	PingPeriod        time.Duration `mapstructure:"ping-period"`
}

func Default() *Config {
	deviceName, err := os.Hostname()
	if err != nil {
		deviceName = ""
	}

	return &Config{
		ListenAddress: frontend.DefaultListenAddress,
		App: AppConfig{
			DisplayName: "Sample App",
			Identifier:  "com.example.hostinspector",
			DeviceName:  deviceName,
			Platform:    runtime.GOOS,
		},
		Frontend: FrontendConfig{
			MessagesPerSecond: frontend.DefaultMessagesPerSecond,
			Burst:             frontend.DefaultBurst,
			PingPeriod:        frontend.DefaultPingPeriod,
		},
	}
}

// New returns a viper instance with the defaults set and environment variable lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault(KeyListenAddress, defaults.ListenAddress)
	v.SetDefault(KeyAppDisplayName, defaults.App.DisplayName)
	v.SetDefault(KeyAppIdentifier, defaults.App.Identifier)
	v.SetDefault(KeyAppDeviceName, defaults.App.DeviceName)
	v.SetDefault(KeyAppPlatform, defaults.App.Platform)
	v.SetDefault(KeyFrontendMessagesPerSecond, defaults.Frontend.MessagesPerSecond)
	v.SetDefault(KeyFrontendBurst, defaults.Frontend.Burst)
	v.SetDefault(KeyFrontendPingPeriod, defaults.Frontend.PingPeriod)

	return v
}

// AddFlags defines the configuration flags and binds them to v. Flag names use dashes instead of dots.
func AddFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	defaults := Default()
	fs.String(flagName(KeyListenAddress), defaults.ListenAddress, "Address (host:port) the inspector server listens on")
	fs.String(flagName(KeyAppDisplayName), defaults.App.DisplayName, "Application name shown to debugger frontends")
	fs.String(flagName(KeyAppIdentifier), defaults.App.Identifier, "Application identifier reported to debugger frontends")
	fs.String(flagName(KeyAppDeviceName), defaults.App.DeviceName, "Device name reported to debugger frontends")
	fs.String(flagName(KeyAppPlatform), defaults.App.Platform, "Platform reported to debugger frontends")
	fs.Float64(flagName(KeyFrontendMessagesPerSecond), defaults.Frontend.MessagesPerSecond, "Maximum rate of CDP messages accepted from one frontend (0 means unlimited)")
	fs.Int(flagName(KeyFrontendBurst), defaults.Frontend.Burst, "Number of CDP messages a frontend may send in a burst")
	fs.Duration(flagName(KeyFrontendPingPeriod), defaults.Frontend.PingPeriod, "How often connected frontends are pinged (0 disables keepalive)")

	for _, key := range []string{
		KeyListenAddress,
		KeyAppDisplayName,
		KeyAppIdentifier,
		KeyAppDeviceName,
		KeyAppPlatform,
		KeyFrontendMessagesPerSecond,
		KeyFrontendBurst,
		KeyFrontendPingPeriod,
	} {
		if err := v.BindPFlag(key, fs.Lookup(flagName(key))); err != nil {
			return fmt.Errorf("could not bind flag for '%s': %w", key, err)
		}
	}

	return nil
}

// Load reads the configuration file (if any) and returns the validated configuration.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read configuration file '%s': %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.ListenAddress); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyListenAddress, err))
	}
	if c.Frontend.MessagesPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyFrontendMessagesPerSecond))
	}
	if c.Frontend.Burst < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyFrontendBurst))
	}
	if c.Frontend.PingPeriod < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyFrontendPingPeriod))
	}

	return errors.Join(errs...)
}

func (c *Config) ServerConfig() frontend.ServerConfig {
	serverConfig := frontend.DefaultServerConfig()
	serverConfig.ListenAddress = c.ListenAddress
	serverConfig.MessagesPerSecond = c.Frontend.MessagesPerSecond
	serverConfig.Burst = c.Frontend.Burst
	serverConfig.PingPeriod = c.Frontend.PingPeriod
	return serverConfig
}

func (c *Config) HostMetadata(version string) inspector.HostTargetMetadata {
	return inspector.HostTargetMetadata{
		AppDisplayName:  c.App.DisplayName,
		AppIdentifier:   c.App.Identifier,
		DeviceName:      c.App.DeviceName,
		IntegrationName: integrationName,
		Platform:        c.App.Platform,
		Version:         version,
	}
}

func flagName(key string) string {
	return strings.ReplaceAll(key, ".", "-")
}
