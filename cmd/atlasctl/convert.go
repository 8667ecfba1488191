package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/glyphatlas/atlas"
)

// runConvert rewrites an atlas, typically in another image format.
func runConvert(args []string, stdout, stderr io.Writer) error {
	var c common
	var base, out, format string
	fs := newFlagSet("convert", stderr, &c)
	fs.StringVar(&base, "atlas", "", "atlas `base` path, without extension")
	fs.StringVar(&format, "format", "", "image format: png, tiff or bmp (default from config)")
	fs.StringVar(&out, "out", "", "output `base` path (default: same as -atlas)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if base == "" {
		return errors.New("convert: -atlas is required")
	}
	cfg, err := c.setup(stderr)
	if err != nil {
		return err
	}

	f := cfg.ImageFormat
	if format != "" {
		if f, err = atlas.ParseImageFormat(format); err != nil {
			return err
		}
	}
	if out == "" {
		out = base
	}

	a, err := atlas.Open(base, 0)
	if err != nil {
		return err
	}
	if err := a.Save(out, f); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s -> %s%s (%d entries)\n", base, out, f.Ext(), a.Len())
	return nil
}
