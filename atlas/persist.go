package atlas

import (
	"bufio"
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/binpack"
)

// Sidecar record layout.
const (
	mapFields     = 9
	mapFieldsSize = 10
)

// SaveMap writes one CSV record per entry in ascending bin id order, ties
// in key order:
//
//	bin_id,glyph_id,size,x,y,ox,oy,w,h[,entry_size]
//
// size is the key size. entry_size is present only when the entry's Size
// differs from it, which is the case for templates. Font ids are not
// stored; LoadMap assigns one.
func (a *Atlas) SaveMap(w io.Writer) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	type record struct {
		key Key
		e   Entry
	}
	recs := make([]record, 0, len(a.entries))
	for k, e := range a.entries {
		recs = append(recs, record{k, e})
	}
	slices.SortFunc(recs, func(x, y record) int {
		if c := cmp.Compare(x.e.BinID, y.e.BinID); c != 0 {
			return c
		}
		return cmp.Compare(x.key, y.key)
	})

	cw := csv.NewWriter(w)
	fields := make([]string, 0, mapFieldsSize)
	for _, r := range recs {
		fields = fields[:0]
		for _, v := range []int{r.e.BinID, r.key.Glyph(), r.key.Size(),
			r.e.X, r.e.Y, r.e.OX, r.e.OY, r.e.W, r.e.H} {
			fields = append(fields, strconv.Itoa(v))
		}
		if r.e.Size != r.key.Size() {
			fields = append(fields, strconv.Itoa(r.e.Size))
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("atlas: write map: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("atlas: write map: %w", err)
	}
	return nil
}

// mapRecord is one parsed sidecar line.
type mapRecord struct {
	bin, glyph, size   int
	x, y, ox, oy, w, h int
	entrySize          int
}

func parseMapRecord(fields []string) (mapRecord, error) {
	if len(fields) != mapFields && len(fields) != mapFieldsSize {
		return mapRecord{}, fmt.Errorf("want %d or %d fields, got %d", mapFields, mapFieldsSize, len(fields))
	}
	v := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return mapRecord{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		v[i] = n
	}
	rec := mapRecord{
		bin: v[0], glyph: v[1], size: v[2],
		x: v[3], y: v[4], ox: v[5], oy: v[6], w: v[7], h: v[8],
		entrySize: v[2],
	}
	if len(v) == mapFieldsSize {
		rec.entrySize = v[9]
	}
	if rec.bin < 0 || rec.glyph < 0 || rec.size < 0 || rec.w < 0 || rec.h < 0 {
		return mapRecord{}, errors.New("negative id or extent")
	}
	return rec, nil
}

// LoadMap reads a sidecar written by SaveMap and caches its entries under
// font. Placements are registered with the packer as they were saved, so
// the surface can keep growing afterwards.
//
// The first malformed record ends the table: it is logged and the records
// before it stay loaded. LoadMap returns the number of records loaded and
// any read error other than end of input.
func (a *Atlas) LoadMap(r io.Reader, font int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	log := glyphatlas.Logger()
	bounds := a.packer.Bounds()

	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	n := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.Warn("atlas: malformed map record", "line", perr.Line, "err", perr.Err)
			break
		}
		if err != nil {
			return n, fmt.Errorf("atlas: read map: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseMapRecord(fields)
		if err != nil {
			log.Warn("atlas: malformed map record", "line", line, "err", err)
			break
		}

		placed, ok := a.packer.Allocation(rec.bin)
		if !ok {
			placed = binpack.R(binpack.Pt(rec.x, rec.y), binpack.Pt(rec.x+rec.w+Padding, rec.y+rec.h+Padding))
			if !bounds.Contains(placed) {
				log.Warn("atlas: map record outside surface", "line", line, "rect", placed.String())
				break
			}
			a.packer.CreateExplicit(rec.bin, placed)
		}

		e := Entry{
			BinID: rec.bin,
			Size:  rec.entrySize,
			X:     rec.x,
			Y:     rec.y,
			OX:    rec.ox,
			OY:    rec.oy,
			W:     rec.w,
			H:     rec.h,
			UV:    a.uv(placed.A.X, placed.A.Y, placed.Dx()-Padding, placed.Dy()-Padding),
		}
		a.entries[NewKey(font, rec.size, rec.glyph)] = e
		a.nextBin = max(a.nextBin+1, rec.bin+1)
		n++
	}
	return n, nil
}

// SaveImage encodes the pixel buffer. Gray atlases are written as 8-bit
// grayscale and RGBA atlases as non-premultiplied RGBA. Rows are written
// in buffer order.
func (a *Atlas) SaveImage(w io.Writer, f ImageFormat) error {
	a.mu.RLock()
	img := a.image()
	a.mu.RUnlock()

	var err error
	switch f {
	case FormatPNG, "":
		err = png.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("atlas: encode %s: %w", f, err)
	}
	return nil
}

// image returns a copy of the pixel buffer as an image.
func (a *Atlas) image() image.Image {
	r := image.Rect(0, 0, a.width, a.height)
	switch a.depth {
	case DepthRGBA:
		img := image.NewNRGBA(r)
		copy(img.Pix, a.pixels)
		return img
	default:
		img := image.NewGray(r)
		copy(img.Pix, a.pixels)
		return img
	}
}

// LoadImage decodes a PNG, TIFF or BMP image into the pixel buffer. The
// image must match the atlas size. Images of another color model are
// converted. The whole surface is marked dirty.
func (a *Atlas) LoadImage(r io.Reader) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("atlas: decode image: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	b := img.Bounds()
	if b.Dx() != a.width || b.Dy() != a.height {
		return fmt.Errorf("%w: %s image is %dx%d, atlas is %dx%d",
			ErrDepth, format, b.Dx(), b.Dy(), a.width, a.height)
	}

	dst := a.image()
	switch src := img.(type) {
	case *image.Gray:
		if d, ok := dst.(*image.Gray); ok {
			copyRows(d.Pix, d.Stride, src.Pix, src.Stride, a.width, a.height)
			break
		}
		draw.Draw(dst.(draw.Image), dst.Bounds(), img, b.Min, draw.Src)
	case *image.NRGBA:
		if d, ok := dst.(*image.NRGBA); ok {
			copyRows(d.Pix, d.Stride, src.Pix, src.Stride, a.width*4, a.height)
			break
		}
		draw.Draw(dst.(draw.Image), dst.Bounds(), img, b.Min, draw.Src)
	default:
		draw.Draw(dst.(draw.Image), dst.Bounds(), img, b.Min, draw.Src)
	}

	switch d := dst.(type) {
	case *image.Gray:
		copy(a.pixels, d.Pix)
	case *image.NRGBA:
		copy(a.pixels, d.Pix)
	}
	a.dirty = a.dirty.Union(a.packer.Bounds())
	return nil
}

func copyRows(dst []byte, dstStride int, src []byte, srcStride, rowBytes, rows int) {
	for y := range rows {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}

// Save writes base.csv and the image base.<ext>. An empty f selects the
// atlas's configured format.
func (a *Atlas) Save(base string, f ImageFormat) error {
	if f == "" {
		f = a.Config().ImageFormat
	}
	if f == "" {
		f = FormatPNG
	}
	if _, err := ParseImageFormat(string(f)); err != nil {
		return err
	}
	if err := writeFile(base+".csv", a.SaveMap); err != nil {
		return err
	}
	if err := writeFile(base+f.Ext(), func(w io.Writer) error { return a.SaveImage(w, f) }); err != nil {
		return err
	}
	glyphatlas.Logger().Info("atlas: saved", "base", base, "format", string(f), "entries", a.Len())
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("atlas: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("atlas: %w", cerr)
		}
	}()
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("atlas: %w", err)
	}
	return nil
}

// ImagePath returns the first existing image file for base, trying png,
// tiff and bmp in that order.
func ImagePath(base string) (string, error) {
	for _, f := range imageFormats {
		p := base + f.Ext()
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if _, err := os.Stat(base + ".tif"); err == nil {
		return base + ".tif", nil
	}
	return "", fmt.Errorf("atlas: no image for %s: %w", base, os.ErrNotExist)
}

// Load reads an atlas saved by Save into a, caching its entries under
// font. The image is loaded first so that a missing or mismatched image
// leaves the entries untouched.
func (a *Atlas) Load(base string, font int) error {
	imgPath, err := ImagePath(base)
	if err != nil {
		return err
	}
	imgFile, err := os.Open(imgPath)
	if err != nil {
		return fmt.Errorf("atlas: %w", err)
	}
	err = a.LoadImage(bufio.NewReader(imgFile))
	imgFile.Close()
	if err != nil {
		return err
	}

	mapFile, err := os.Open(base + ".csv")
	if err != nil {
		return fmt.Errorf("atlas: %w", err)
	}
	defer mapFile.Close()

	n, err := a.LoadMap(mapFile, font)
	if err != nil {
		return err
	}
	glyphatlas.Logger().Info("atlas: loaded", "base", base, "image", imgPath, "entries", n)
	return nil
}

// Open creates an atlas sized and deep enough for the image saved under
// base and loads it with Load. Gray images give a DepthGray atlas, all
// others DepthRGBA. The atlas image format is taken from the file found.
func Open(base string, font int) (*Atlas, error) {
	imgPath, err := ImagePath(base)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(imgPath)
	if err != nil {
		return nil, fmt.Errorf("atlas: %w", err)
	}
	ic, _, err := image.DecodeConfig(bufio.NewReader(f))
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("atlas: decode image config: %w", err)
	}

	cfg := Config{Width: ic.Width, Height: ic.Height, Depth: DepthRGBA}
	if isGray(ic.ColorModel) {
		cfg.Depth = DepthGray
	}
	if cfg.ImageFormat, err = ParseImageFormat(filepath.Ext(imgPath)); err != nil {
		return nil, err
	}
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Load(base, font); err != nil {
		return nil, err
	}
	return a, nil
}

// isGray reports whether m holds only gray levels. BMP stores gray
// images as a palette of grays.
func isGray(m color.Model) bool {
	if m == color.GrayModel {
		return true
	}
	p, ok := m.(color.Palette)
	if !ok || len(p) == 0 {
		return false
	}
	for _, c := range p {
		r, g, b, _ := c.RGBA()
		if r != g || g != b {
			return false
		}
	}
	return true
}
