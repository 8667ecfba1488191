package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/gogpu/glyphatlas/atlas"
)

// runInspect loads an atlas and prints its size, usage and the packer
// consistency check.
func runInspect(args []string, stdout, stderr io.Writer) error {
	var c common
	var base string
	var font int
	var list bool
	fs := newFlagSet("inspect", stderr, &c)
	fs.StringVar(&base, "atlas", "", "atlas `base` path, without extension")
	fs.IntVar(&font, "font", 0, "font id to load the entries under")
	fs.BoolVar(&list, "entries", false, "list every entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if base == "" {
		return errors.New("inspect: -atlas is required")
	}
	if _, err := c.setup(stderr); err != nil {
		return err
	}

	a, err := atlas.Open(base, font)
	if err != nil {
		return err
	}
	cfg := a.Config()
	s := a.Stats()
	verify := a.Verify()

	fmt.Fprintf(stdout, "atlas:       %s\n", base)
	fmt.Fprintf(stdout, "surface:     %dx%d %s (%s)\n", cfg.Width, cfg.Height, cfg.Depth, cfg.ImageFormat)
	fmt.Fprintf(stdout, "entries:     %d\n", s.Entries)
	fmt.Fprintf(stdout, "allocations: %d\n", s.Allocations)
	fmt.Fprintf(stdout, "utilization: %.1f%%\n", s.Utilization*100)
	fmt.Fprintf(stdout, "verify:      %d\n", verify)

	if list {
		entries := a.Entries()
		tw := tabwriter.NewWriter(stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "bin\tsize\tglyph\tx\ty\tox\toy\tw\th\t")
		for _, k := range slices.Sorted(maps.Keys(entries)) {
			e := entries[k]
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
				e.BinID, k.Size(), k.Glyph(), e.X, e.Y, e.OX, e.OY, e.W, e.H)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if verify != 0 {
		return fmt.Errorf("inspect: %s has %d packer conflicts", base, verify)
	}
	return nil
}
