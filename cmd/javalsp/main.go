package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "javalsp",
		Short: "An interactive analysis core for Java, speaking LSP",
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScanCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
