package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/posterize"
	"github.com/bodgit/posterize/dg5"
	"github.com/bodgit/posterize/dither"
	"github.com/bodgit/posterize/palette"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const defaultDB = "posterize.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var modeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Value:   palette.Posterized.String(),
		Usage:   "palette mode: posterized, posterized-mono, median-cut, median-cut-mono or adaptive",
	},
	&cli.StringFlag{
		Name:    "dither",
		Aliases: []string{"d"},
		Value:   dither.None.String(),
		Usage:   "dithering mode: none, bayer or floyd-steinberg",
	},
}

func options(c *cli.Context) (posterize.Options, error) {
	mode, err := palette.ParseMode(c.String("mode"))
	if err != nil {
		return posterize.Options{}, err
	}
	dm, err := dither.ParseMode(c.String("dither"))
	if err != nil {
		return posterize.Options{}, err
	}
	return posterize.Options{Mode: mode, Dither: dm}, nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func replaceExt(file, ext string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ext
}

func readImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}

func writeFile(file string, fn func(io.Writer) error) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := fn(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func encodeImage(w io.Writer, m image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".bmp":
		return bmp.Encode(w, m)
	case ".tif", ".tiff":
		return tiff.Encode(w, m, nil)
	default:
		return png.Encode(w, m)
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "posterize"
	app.Usage = "32 color image reduction and DG5 conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"POSTERIZE_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Reduce an image and write it as DG5",
			Description: "",
			ArgsUsage:   "FILE [OUTPUT]",
			Flags:       modeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				o, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				in := c.Args().First()
				out := c.Args().Get(1)
				if out == "" {
					out = replaceExt(in, ".dg5")
				}

				m, err := readImage(in)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writeFile(out, func(w io.Writer) error {
					return posterize.Encode(w, m, o)
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				newLogger(c).Printf("Encoded \"%s\" to \"%s\" (%s, %s)\n", in, out, o.Mode, o.Dither)

				return nil
			},
		},
		{
			Name:        "decode",
			Usage:       "Decode a DG5 file to BMP, PNG or TIFF",
			Description: "The output format is chosen by the file extension, defaulting to PNG.",
			ArgsUsage:   "FILE [OUTPUT]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				in := c.Args().First()
				out := c.Args().Get(1)
				if out == "" {
					out = replaceExt(in, ".png")
				}

				f, err := os.Open(in)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				m, err := dg5.Decode(f)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writeFile(out, func(w io.Writer) error {
					return encodeImage(w, m, filepath.Ext(out))
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "palette",
			Usage:       "Print the palette generated for an image",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       modeFlags[:1],
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				mode, err := palette.ParseMode(c.String("mode"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := readImage(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				_, p, err := posterize.Process(m, posterize.Options{Mode: mode})
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for i, col := range p {
					fmt.Printf("%2d #%02X%02X%02X\n", i, col.R(), col.G(), col.B())
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Reduce images and store them in the database",
			Description: "",
			ArgsUsage:   "FILE...",
			Flags:       modeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				o, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				logger := newLogger(c)

				p, err := posterize.New(c.String("db"), logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer p.Close()

				for _, file := range c.Args().Slice() {
					sha, err := p.Catalog().Import(file, o)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					logger.Printf("Imported \"%s\" as %s\n", file, sha)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and import every image found",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags:       modeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				o, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				p, err := posterize.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer p.Close()

				if err := p.Scan(c.Args().First(), o); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Write a stored DG5 encoding to a file",
			Description: "",
			ArgsUsage:   "SHA1 OUTPUT",
			Flags:       modeFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				o, err := options(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				p, err := posterize.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer p.Close()

				sha := strings.ToUpper(c.Args().First())
				b, err := p.Catalog().Find(sha, o)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if b == nil {
					return cli.NewExitError(fmt.Sprintf("no %s, %s encoding of %s", o.Mode, o.Dither, sha), 1)
				}

				if err := ioutil.WriteFile(c.Args().Get(1), b, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List the encodings stored in the database",
			Description: "",
			Action: func(c *cli.Context) error {
				p, err := posterize.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer p.Close()

				entries, err := p.Catalog().List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, e := range entries {
					fmt.Printf("%s %-16s %-15s %5dx%-5d %8d %s\n", e.SHA1, e.Mode, e.Dither, e.Width, e.Height, e.Size, e.Name)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
