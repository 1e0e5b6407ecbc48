package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/entrypoint"
)

var errMissingISBN = fmt.Errorf("%w: ISBN cannot be empty", entities.ErrValidation)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the REST API",
		Action: r.Serve,
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a book by looking its ISBN up on OpenLibrary",
		ArgsUsage: "<isbn>",
		Arguments: isbnArg(),
		Flags:     withFlags([]cli.Flag{typeFlag(), jsonFlag()}, extrasFlags()),
		Action:    r.Add,
	}
}

func addManualCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add-manual",
		Usage:     "Add a book without a lookup",
		ArgsUsage: "<isbn>",
		Arguments: isbnArg(),
		Flags: withFlags([]cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Book title", Required: true},
			&cli.StringSliceFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author name (repeatable)"},
			typeFlag(),
			jsonFlag(),
		}, extrasFlags()),
		Action: r.AddManual,
	}
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List every book",
		Flags:   []cli.Flag{jsonFlag()},
		Action:  r.List,
	}
}

func findCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Show the book with an ISBN",
		ArgsUsage: "<isbn>",
		Arguments: isbnArg(),
		Flags:     []cli.Flag{jsonFlag()},
		Action:    r.Find,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove the book with an ISBN",
		ArgsUsage: "<isbn>",
		Arguments: isbnArg(),
		Action:    r.Remove,
	}
}

func borrowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "borrow",
		Usage:     "Mark a book as borrowed",
		ArgsUsage: "<isbn>",
		Arguments: isbnArg(),
		Flags:     []cli.Flag{jsonFlag()},
		Action:    r.Borrow,
	}
}

func returnCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "return",
		Usage:     "Mark a borrowed book as available",
		ArgsUsage: "<isbn>",
		Arguments: isbnArg(),
		Flags:     []cli.Flag{jsonFlag()},
		Action:    r.Return,
	}
}

func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change fields of a book; only the flags given are applied",
		ArgsUsage: "<isbn>",
		Arguments: isbnArg(),
		Flags: withFlags([]cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "New title"},
			&cli.StringSliceFlag{Name: "author", Aliases: []string{"a"}, Usage: "Replace the authors (repeatable)"},
			&cli.BoolFlag{Name: "borrowed", Usage: "Set the borrowed flag"},
			typeFlag(),
			jsonFlag(),
		}, extrasFlags()),
		Action: r.Update,
	}
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Summarize the collection",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Stats,
	}
}

// Serve runs the REST API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unknown command %q", cmd.Args().First())
	}
	return entrypoint.Run(ctx, r.effectiveConfig(cmd), r.version, r.logger)
}

// Add looks an ISBN up and stores the book.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	isbn := cmd.StringArg("isbn")
	if isbn == "" {
		return errMissingISBN
	}
	category, err := entities.ParseCategory(cmd.String("type"))
	if err != nil {
		return err
	}

	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		book, err := c.AddByISBN(ctx, isbn, category, extrasFromFlags(cmd))
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(book)
		}
		return r.writePlainln("Book successfully added: %s", book)
	})
}

// AddManual stores a book described entirely by flags.
func (r *Runner) AddManual(ctx context.Context, cmd *cli.Command) error {
	isbn := cmd.StringArg("isbn")
	if isbn == "" {
		return errMissingISBN
	}
	category, err := entities.ParseCategory(cmd.String("type"))
	if err != nil {
		return err
	}

	book := entities.NewBook(isbn, cmd.String("title"), catalog.CleanAuthors(cmd.StringSlice("author"))...)
	book.Category = category
	extrasFromFlags(cmd).ForCategory(category).Apply(book)

	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		added, err := c.AddManual(book)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(added)
		}
		return r.writePlainln("Book successfully added: %s", added)
	})
}

// List prints every book in insertion order.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		books := c.List()
		if cmd.Bool("json") {
			return r.writeJSON(books)
		}
		if len(books) == 0 {
			return r.writePlainln("(no books)")
		}
		for i, book := range books {
			if err := r.writePlainln("%2d. %s", i+1, describe(book)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Find prints one book.
func (r *Runner) Find(ctx context.Context, cmd *cli.Command) error {
	isbn := cmd.StringArg("isbn")
	if isbn == "" {
		return errMissingISBN
	}
	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		book, err := c.Get(isbn)
		if err != nil {
			return err
		}
		return r.writeBook(cmd, book)
	})
}

// Remove deletes one book.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	isbn := cmd.StringArg("isbn")
	if isbn == "" {
		return errMissingISBN
	}
	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		if err := c.Remove(isbn); err != nil {
			return err
		}
		return r.writePlainln("Removed %s", isbn)
	})
}

// Borrow marks a book as borrowed.
func (r *Runner) Borrow(ctx context.Context, cmd *cli.Command) error {
	return r.transition(cmd, (*catalog.Catalog).Borrow)
}

// Return marks a book as available.
func (r *Runner) Return(ctx context.Context, cmd *cli.Command) error {
	return r.transition(cmd, (*catalog.Catalog).Return)
}

func (r *Runner) transition(cmd *cli.Command, fn func(*catalog.Catalog, string) (*entities.Book, error)) error {
	isbn := cmd.StringArg("isbn")
	if isbn == "" {
		return errMissingISBN
	}
	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		book, err := fn(c, isbn)
		if err != nil {
			return err
		}
		return r.writeBook(cmd, book)
	})
}

// Update applies the flags that were given to one book.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	isbn := cmd.StringArg("isbn")
	if isbn == "" {
		return errMissingISBN
	}

	update := entities.BookUpdate{Extras: extrasFromFlags(cmd)}
	if cmd.IsSet("title") {
		title := cmd.String("title")
		update.Title = &title
	}
	if cmd.IsSet("author") {
		update.Authors = catalog.CleanAuthors(cmd.StringSlice("author"))
		if update.Authors == nil {
			update.Authors = []string{}
		}
	}
	if cmd.IsSet("borrowed") {
		borrowed := cmd.Bool("borrowed")
		update.Borrowed = &borrowed
	}
	if cmd.IsSet("type") {
		category, err := entities.ParseCategory(cmd.String("type"))
		if err != nil {
			return err
		}
		update.Category = &category
	}
	if update.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", entities.ErrValidation)
	}

	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		book, err := c.Update(isbn, update)
		if err != nil {
			return err
		}
		return r.writeBook(cmd, book)
	})
}

// Stats prints collection totals.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	return r.withCatalog(cmd, func(c *catalog.Catalog) error {
		stats := c.Stats()
		if cmd.Bool("json") {
			return r.writeJSON(stats)
		}
		if err := r.writePlainln("Total: %d (borrowed %d, available %d)", stats.Total, stats.Borrowed, stats.Available); err != nil {
			return err
		}
		for _, category := range entities.Categories {
			if err := r.writePlainln("  %-8s %d", category, stats.ByCategory[category]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Runner) withCatalog(cmd *cli.Command, fn func(*catalog.Catalog) error) error {
	components, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := components.Close(); cerr != nil {
			r.logger.Warn("failed to close catalog", "err", cerr)
		}
	}()

	return fn(components.Catalog)
}
