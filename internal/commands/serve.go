/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/microsoft/hostinspector/internal/config"
	"github.com/microsoft/hostinspector/internal/frontend"
	"github.com/microsoft/hostinspector/internal/samplehost"
	"github.com/microsoft/hostinspector/internal/version"
	"github.com/microsoft/hostinspector/pkg/concurrency"
)

const (
	hostShutdownTimeout = 10 * time.Second
)

func NewServeCommand(log logr.Logger) (*cobra.Command, error) {
	v := config.New()
	var configFile string

	serveCmd := &cobra.Command{
		Use:    "serve",
		Short:  "Runs a sample application host and serves it to debugger frontends",
		PreRun: LogVersion(log, "Starting inspector server..."),
		RunE:   serve(log, v, &configFile),
		Args:   cobra.NoArgs,
	}

	serveCmd.Flags().StringVar(&configFile, "config", "", "Path to a configuration file (YAML, JSON or TOML)")
	if err := config.AddFlags(v, serveCmd.Flags()); err != nil {
		return nil, err
	}

	return serveCmd, nil
}

func serve(log logr.Logger, v *viper.Viper, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		log = log.WithName("serve")

		cfg, err := config.Load(v, *configFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		executorCtx, cancelExecutor := context.WithCancel(context.WithoutCancel(ctx))
		defer cancelExecutor()

		executor := concurrency.NewSerialExecutor(executorCtx, log.WithName("HostExecutor"))
		host := samplehost.New(cfg.HostMetadata(version.Version().Version), executor, log.WithName("SampleHost"))
		host.Start()

		server := frontend.NewServer(host.Target(), cfg.ServerConfig(), log.WithName("Server"))
		serveErr := server.ListenAndServe(ctx)

		shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), hostShutdownTimeout)
		defer cancelShutdown()
		host.Stop()
		closeErr := host.Target().Close(shutdownCtx)

		if err = errors.Join(serveErr, closeErr); err != nil {
			return fmt.Errorf("inspector server failed: %w", err)
		}

		log.Info("Inspector server stopped")
		return nil
	}
}
