package main

import (
	"github.com/spf13/cobra"

	"github.com/javadev/javalsp/internal/lspserver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Language Server Protocol server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lspserver.New(version)
			return server.RunStdio()
		},
	}
}
