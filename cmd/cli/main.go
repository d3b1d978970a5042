package main

import (
	"fmt"
	"os"

	"github.com/de-tools/marketing-atlas/pkg/terminal/commands"
	"github.com/de-tools/marketing-atlas/pkg/terminal/export"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "marketing-atlas",
		Short: "Period-comparison reports for marketing analytics backends",
	}
	rootCmd.AddCommand(commands.NewReportCmd(export.NewReporter(os.Stdout)))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
