package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jploot/picomaven/internal/cli"
)

var (
	configPath string
	verbose    bool
	jsonOutput bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picomaven",
		Short: "A lightweight Maven artifact resolver and downloader",
		Long: `picomaven resolves artifacts from Maven-style repositories:
- locates each artifact across the configured repositories
- downloads and checksum-verifies the binaries
- expands transitive dependencies declared in descriptors
- installs everything into a local Maven-layout tree`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: picomaven.yaml if present)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "log in JSON format")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.JSONOutput = &jsonOutput

	// Add subcommands
	cmd.AddCommand(
		cli.NewFetchCmd(),
		cli.NewReposCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
