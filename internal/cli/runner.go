// Package cli defines the bookcatalog command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/entrypoint"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *config.Config
	version string
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *config.Config
	Version string
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(os.Stderr, opts.Config.Log.Level)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		version: opts.Version,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// NewApp builds the root command. Without a subcommand it serves the API.
func NewApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "bookcatalog",
		Usage:   "Manage a book catalog with OpenLibrary lookups",
		Version: r.version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to the catalog file or SQLite database",
				Sources: cli.EnvVars("CATALOG_PATH"),
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Catalog backend: json or sqlite",
				Sources: cli.EnvVars("CATALOG_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action:   r.Serve,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, addCommand, addManualCommand, listCommand, findCommand,
		removeCommand, borrowCommand, returnCommand, updateCommand, statsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// effectiveConfig applies the global flags on top of the environment config.
func (r *Runner) effectiveConfig(cmd *cli.Command) *config.Config {
	cfg := *r.config
	if cmd.IsSet("catalog") {
		cfg.Catalog.Path = cmd.String("catalog")
	}
	if cmd.IsSet("backend") {
		cfg.Catalog.Backend = strings.ToLower(cmd.String("backend"))
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
		r.logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	}
	return &cfg
}

func (r *Runner) open(cmd *cli.Command) (*entrypoint.Components, error) {
	return entrypoint.Build(r.effectiveConfig(cmd), r.logger)
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format+"\n", args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeBook prints one book as JSON or as its display line.
func (r *Runner) writeBook(cmd *cli.Command, book *entities.Book) error {
	if cmd.Bool("json") {
		return r.writeJSON(book)
	}
	return r.writePlainln("%s", describe(book))
}

func describe(book *entities.Book) string {
	status := "available"
	if book.Borrowed {
		status = "borrowed"
	}
	return fmt.Sprintf("%s [%s, %s]", book, book.Category, status)
}
