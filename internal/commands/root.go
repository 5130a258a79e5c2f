/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/hostinspector/pkg/logger"
)

func NewRootCommand(log *logger.Logger) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "hostinspector",
		Short: "Exposes an application host to Chrome DevTools Protocol debuggers",
		Long: `hostinspector runs an inspectable application host.

	Debugger frontends connect over WebSocket and talk Chrome DevTools Protocol to the host.
	Host-level requests are answered by the host itself; everything else is routed to the instance
	the host is currently running. Debugging sessions survive instance reloads.`,
		SilenceUsage: true,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			log.Flush()
		},
	}

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.AddCommand(NewVersionCommand(log.Logger))

	if cmd, err := NewServeCommand(log.Logger); err != nil {
		return nil, fmt.Errorf("could not set up 'serve' command: %w", err)
	} else {
		rootCmd.AddCommand(cmd)
	}

	log.AddLevelFlag(rootCmd.PersistentFlags())

	return rootCmd, nil
}
