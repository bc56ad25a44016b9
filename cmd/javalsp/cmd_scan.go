package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/filestore"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <classpath-entry>...",
		Short: "Scan classpath entries and report the symbols found, without starting a server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args)
		},
	}
}

func runScan(entries []string) error {
	d := dispatcher.New(filestore.NewMem())
	elements, err := d.ScanClassPath(entries)
	if err != nil {
		fmt.Printf("warning: %v\n", err)
	}
	fmt.Printf("Scanned %d classpath entries, found %d symbols\n", len(entries), len(elements))
	for _, el := range elements {
		name := el.Name
		if el.Pkg != "" {
			name = el.Pkg + "." + name
		}
		fmt.Printf("  %-10s %s\n", el.Kind, name)
	}
	return nil
}
