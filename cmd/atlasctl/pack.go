package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand/v2"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/binpack"
)

type packOptions struct {
	width, height    int
	count            int
	minSide, maxSide int
	seed             uint64
	out              string
	scale            int
	dump             bool
}

// runPack fills a packer with random rectangles, checks it and
// optionally writes a picture of the result.
func runPack(args []string, stdout, stderr io.Writer) error {
	var c common
	var o packOptions
	fs := newFlagSet("pack", stderr, &c)
	fs.IntVar(&o.width, "width", 0, "surface width (default from config)")
	fs.IntVar(&o.height, "height", 0, "surface height (default from config)")
	fs.IntVar(&o.count, "n", 0, "rectangles to place, 0 packs until the first failure")
	fs.IntVar(&o.minSide, "min", 16, "minimum rectangle side")
	fs.IntVar(&o.maxSide, "max", 31, "maximum rectangle side")
	fs.Uint64Var(&o.seed, "seed", 1, "random seed")
	fs.StringVar(&o.out, "out", "", "write a PNG picture of the packing to `file`")
	fs.IntVar(&o.scale, "scale", 1, "picture scale factor")
	fs.BoolVar(&o.dump, "dump", false, "print free and allocated rectangles")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.setup(stderr)
	if err != nil {
		return err
	}
	if !isSet(fs, "width") {
		o.width = cfg.Width
	}
	if !isSet(fs, "height") {
		o.height = cfg.Height
	}
	if o.width <= 0 || o.height <= 0 {
		return fmt.Errorf("invalid surface %dx%d", o.width, o.height)
	}
	if o.minSide <= 0 || o.maxSide < o.minSide {
		return fmt.Errorf("invalid side range [%d, %d]", o.minSide, o.maxSide)
	}
	if o.scale <= 0 {
		return fmt.Errorf("invalid scale %d", o.scale)
	}

	p := binpack.New(binpack.Pt(o.width, o.height))
	placed, failed := pack(p, o)

	glyphatlas.Logger().Debug("pack: done", "placed", placed, "failed", failed)
	fmt.Fprintf(stdout, "surface %dx%d: placed %d, failed %d, utilization %.1f%%, free rects %d\n",
		o.width, o.height, placed, failed, p.Utilization()*100, len(p.FreeList()))

	if o.dump {
		if err := p.Dump(stdout); err != nil {
			return err
		}
	}
	if n := p.Verify(); n != 0 {
		return fmt.Errorf("verify found %d conflicts", n)
	}
	if o.out != "" {
		if err := writePicture(o.out, p, o.scale); err != nil {
			return err
		}
		glyphatlas.Logger().Info("pack: wrote picture", "path", o.out, "scale", o.scale)
	}
	return nil
}

func pack(p *binpack.Packer, o packOptions) (placed, failed int) {
	rng := rand.New(rand.NewPCG(o.seed, o.seed))
	side := func() int { return o.minSide + rng.IntN(o.maxSide-o.minSide+1) }

	for id := 0; o.count == 0 || id < o.count; id++ {
		if _, ok := p.Allocate(id, binpack.Pt(side(), side())); ok {
			placed++
			continue
		}
		failed++
		if o.count == 0 {
			break
		}
	}
	return placed, failed
}

var (
	background = color.RGBA{0x33, 0x33, 0x33, 0xff}
	freeEdge   = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// picture draws allocations as filled boxes colored by id and free
// rectangles as outlines.
func picture(p *binpack.Packer) *image.RGBA {
	b := p.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, a := range p.Allocations() {
		r := image.Rect(a.Rect.A.X, a.Rect.A.Y, a.Rect.B.X, a.Rect.B.Y)
		draw.Draw(img, r, image.NewUniform(allocColor(a.ID)), image.Point{}, draw.Src)
	}
	for _, f := range p.FreeList() {
		outline(img, image.Rect(f.A.X, f.A.Y, f.B.X, f.B.Y), freeEdge)
	}
	return img
}

func allocColor(id int) color.RGBA {
	h := uint32(id+1) * 2654435761
	return color.RGBA{
		R: 0x40 + uint8(h>>24)%0xa0,
		G: 0x40 + uint8(h>>16)%0xa0,
		B: 0x40 + uint8(h>>8)%0xa0,
		A: 0xff,
	}
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

func writePicture(path string, p *binpack.Packer, scale int) (err error) {
	var img image.Image = picture(p)
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
