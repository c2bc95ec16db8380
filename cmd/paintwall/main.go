package main

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/paintwall"
	"github.com/bodgit/paintwall/producer"
	"github.com/bodgit/paintwall/source"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	defaultDB       = "paintwall.db"
	defaultProducer = "python3 python/get_matrix_data.py"
	defaultLegacy   = "python3 python/get_dimensions.py"
	fullMatrixEnv   = "PRINT_FULL_MATRIX"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(c.App.ErrWriter)
	}
	return logger
}

func openDB(c *cli.Context) (*paintwall.PaletteDB, error) {
	return paintwall.NewPaletteDB(c.String("db"))
}

func loadPalette(c *cli.Context, m *paintwall.Core) (paintwall.Palette, error) {
	switch {
	case c.String("palette") != "":
		db, err := openDB(c)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		p, err := db.Find(c.String("palette"))
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("no palette named %q", c.String("palette"))
		}
		return p, nil
	case c.String("palette-file") != "":
		f, err := os.Open(c.String("palette-file"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return paintwall.ParsePalette(f)
	case c.Int("derive") > 0:
		method, err := paintwall.ParseMethod(c.String("method"))
		if err != nil {
			return nil, err
		}
		return paintwall.Derive(m.Image(), c.Int("derive"), method)
	default:
		return nil, nil
	}
}

func providers(c *cli.Context) (source.Provider, source.Provider, error) {
	if image := c.String("image"); image != "" {
		return &producer.Matrix{
				Image:     image,
				Dir:       filepath.Dir(paintwall.DefaultPaths.Binary),
				MaxWidth:  c.Int("max-width"),
				MaxHeight: c.Int("max-height"),
			}, &producer.Dimensions{
				Image:  image,
				Output: paintwall.DefaultPaths.LegacyDimensions,
			}, nil
	}

	p, err := source.Parse(c.String("producer"), c.Duration("timeout"))
	if err != nil {
		return nil, nil, err
	}

	l, err := source.Parse(c.String("legacy"), c.Duration("timeout"))
	if err != nil {
		return nil, nil, err
	}

	return p, l, nil
}

func process(c *cli.Context) error {
	p, l, err := providers(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	full := c.Bool("full") || os.Getenv(fullMatrixEnv) != ""

	// Fallback warnings are always shown
	m := paintwall.New(paintwall.Config{
		Producer: p,
		Legacy:   l,
	}, log.New(c.App.ErrWriter, "", 0))

	o := m.Acquire(context.Background(), paintwall.AcquireOptions{
		Output:  c.App.Writer,
		Verbose: full,
	})

	logger := newLogger(c)
	for _, a := range o.Attempts {
		if a.Err != nil {
			logger.Printf("%s: %v\n", a.Stage, a.Err)
		} else {
			logger.Printf("%s: ok\n", a.Stage)
		}
	}

	palette, err := loadPalette(c, m)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if palette == nil {
		return nil
	}

	logger.Printf("Mapping to %d colors: %s\n", len(palette), palette)
	if err := m.MapToNearestColor(palette); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := m.Dump(c.App.Writer, full); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "paintwall"
	app.Usage = "Paintball wall image utility"
	app.Version = "1.0.0"
	app.ErrWriter = os.Stderr

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PAINTWALL_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to palette database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "process",
			Usage:       "Acquire the pixel matrix and optionally map it onto a palette",
			Description: "Runs the image-producing collaborator and reads its output, falling back to a generated gradient if no usable data is found.",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "producer",
					EnvVars: []string{"PAINTWALL_PRODUCER"},
					Value:   defaultProducer,
					Usage:   "command that writes the metadata and binary files",
				},
				&cli.StringFlag{
					Name:    "legacy",
					EnvVars: []string{"PAINTWALL_LEGACY"},
					Value:   defaultLegacy,
					Usage:   "command that writes the legacy dimensions file",
				},
				&cli.StringFlag{
					Name:  "image",
					Usage: "produce the matrix from this image instead of running commands",
				},
				&cli.IntFlag{
					Name:  "max-width",
					Usage: "shrink the image to at most this many columns (with --image)",
				},
				&cli.IntFlag{
					Name:  "max-height",
					Usage: "shrink the image to at most this many rows (with --image)",
				},
				&cli.DurationFlag{
					Name:    "timeout",
					EnvVars: []string{"PAINTWALL_TIMEOUT"},
					Value:   source.DefaultTimeout,
					Usage:   "maximum time to wait for each command",
				},
				&cli.BoolFlag{
					Name:  "full",
					Usage: "print the full matrix (also enabled by " + fullMatrixEnv + ")",
				},
				&cli.StringFlag{
					Name:  "palette",
					Usage: "map onto the named palette from the database",
				},
				&cli.StringFlag{
					Name:  "palette-file",
					Usage: "map onto the palette in `FILE`",
				},
				&cli.IntFlag{
					Name:  "derive",
					Usage: "map onto a palette of `N` colors derived from the image",
				},
				&cli.StringFlag{
					Name:  "method",
					Value: paintwall.MethodMedianCut.String(),
					Usage: "palette derivation method (mediancut, kmeans, dominant)",
				},
			},
			Action: process,
		},
		{
			Name:      "produce",
			Usage:     "Write the metadata and binary files for an image",
			ArgsUsage: "IMAGE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "out",
					Value: filepath.Dir(paintwall.DefaultPaths.Binary),
					Usage: "output directory",
				},
				&cli.IntFlag{
					Name:  "max-width",
					Usage: "shrink the image to at most this many columns",
				},
				&cli.IntFlag{
					Name:  "max-height",
					Usage: "shrink the image to at most this many rows",
				},
				&cli.StringFlag{
					Name:  "dimensions",
					Usage: "also write the legacy dimensions `FILE`",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				meta, err := producer.Produce(c.Args().First(), c.String("out"), c.Int("max-width"), c.Int("max-height"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				logger.Printf("Wrote %dx%d matrix (%d bytes) to %s\n", meta.Width, meta.Height, meta.Bytes, c.String("out"))

				if file := c.String("dimensions"); file != "" {
					if err := producer.WriteDimensions(c.Args().First(), file); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:  "palette",
			Usage: "Manage the palette database",
			Subcommands: []*cli.Command{
				{
					Name:      "import",
					Usage:     "Import a palette of hex colors, one per line",
					ArgsUsage: "NAME FILE",
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						db, err := openDB(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						if err := db.ImportFile(c.Args().Get(0), c.Args().Get(1)); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
				{
					Name:  "list",
					Usage: "List palette names",
					Action: func(c *cli.Context) error {
						db, err := openDB(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						names, err := db.Names()
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						for _, name := range names {
							fmt.Println(name)
						}

						return nil
					},
				},
				{
					Name:      "show",
					Usage:     "Print the colors of a palette",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						db, err := openDB(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						p, err := db.Find(c.Args().First())
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						if p == nil {
							return cli.NewExitError(errors.New("no such palette"), 1)
						}
						for _, col := range p {
							fmt.Println(col.Hex())
						}

						return nil
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete a palette",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						db, err := openDB(c)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						if err := db.Delete(c.Args().First()); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
			},
		},
	}

	return app
}

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
