package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrlokans/bookcatalog/internal/cli"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	logger := logging.New(os.Stderr, cfg.Log.Level)

	runner := cli.NewRunner(cli.RunnerOpts{
		Config:  cfg,
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
		Logger:  logger,
		Output:  os.Stdout,
	})

	// With no subcommand the REST API is served.
	if err := cli.NewApp(runner).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
