package cli

import (
	"github.com/urfave/cli/v3"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON",
	}
}

func isbnArg() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name: "isbn",
		},
	}
}

func typeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "type",
		Aliases: []string{"t"},
		Usage:   "Book type: Physical, Digital or Audio",
	}
}

// extrasFlags are the category-specific attributes shared by add, add-manual and update.
func extrasFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "shelf", Usage: "Shelf location (Physical)"},
		&cli.FloatFlag{Name: "file-size", Usage: "File size in MB (Digital)"},
		&cli.StringFlag{Name: "file-format", Usage: "File format, e.g. EPUB (Digital)"},
		&cli.IntFlag{Name: "duration", Usage: "Duration in minutes (Audio)"},
		&cli.StringFlag{Name: "narrator", Usage: "Narrator (Audio)"},
	}
}

// extrasFromFlags returns only the attributes given on the command line.
func extrasFromFlags(cmd *cli.Command) entities.Extras {
	var extras entities.Extras
	if cmd.IsSet("shelf") {
		v := cmd.String("shelf")
		extras.ShelfLocation = &v
	}
	if cmd.IsSet("file-size") {
		v := cmd.Float("file-size")
		extras.FileSizeMB = &v
	}
	if cmd.IsSet("file-format") {
		v := cmd.String("file-format")
		extras.FileFormat = &v
	}
	if cmd.IsSet("duration") {
		v := cmd.Int("duration")
		extras.DurationMinutes = &v
	}
	if cmd.IsSet("narrator") {
		v := cmd.String("narrator")
		extras.Narrator = &v
	}
	return extras
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}
