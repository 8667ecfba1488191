// Command atlasctl packs, inspects and converts glyph atlases.
//
// Usage:
//
//	atlasctl pack    [-config file] [-v] [-width w] [-height h] [-n count] [-min s] [-max s] [-seed n] [-out file.png] [-scale k] [-dump]
//	atlasctl inspect [-config file] [-v] -atlas base [-font id]
//	atlasctl convert [-config file] [-v] -atlas base [-format png|tiff|bmp] [-out base]
//
// An atlas is stored as base.csv plus an image base.png, base.tiff or
// base.bmp.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/atlas"
)

var errUsage = errors.New("usage: atlasctl pack|inspect|convert [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "atlasctl:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "pack":
		return runPack(args[1:], stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout, stderr)
	case "convert":
		return runConvert(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(stdout, errUsage)
		return nil
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

// common holds the flags shared by all subcommands.
type common struct {
	config  string
	verbose bool
}

func newFlagSet(name string, stderr io.Writer, c *common) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.config, "config", "", "TOML `file` with atlas defaults")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logging")
	return fs
}

// setup installs the logger and returns the configuration.
func (c *common) setup(stderr io.Writer) (atlas.Config, error) {
	glyphatlas.SetLogger(newLogger(stderr, c.verbose))
	if c.config == "" {
		return atlas.DefaultConfig(), nil
	}
	return atlas.LoadConfig(c.config)
}

// newLogger logs text to terminals and JSON otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// isSet reports whether the flag name was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
