package atlas

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphatlas"
)

// Depth is the number of bytes per atlas pixel.
type Depth int

// Supported channel depths.
const (
	// DepthGray is one coverage byte per pixel.
	DepthGray Depth = 1

	// DepthRGBA is four bytes per pixel, for color glyphs.
	DepthRGBA Depth = 4
)

// Valid reports whether d is a supported depth.
func (d Depth) Valid() bool {
	return d == DepthGray || d == DepthRGBA
}

// Format returns the texture format matching the pixel layout.
func (d Depth) Format() gputypes.TextureFormat {
	switch d {
	case DepthGray:
		return gputypes.TextureFormatR8Unorm
	case DepthRGBA:
		return gputypes.TextureFormatRGBA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

func (d Depth) String() string {
	switch d {
	case DepthGray:
		return "gray"
	case DepthRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("Depth(%d)", int(d))
	}
}

// ImageFormat names the codec used to persist atlas pixels.
type ImageFormat string

// Supported image formats.
const (
	FormatPNG  ImageFormat = "png"
	FormatTIFF ImageFormat = "tiff"
	FormatBMP  ImageFormat = "bmp"
)

var imageFormats = []ImageFormat{FormatPNG, FormatTIFF, FormatBMP}

// ParseImageFormat parses a format name or file extension, with or
// without the leading dot. "tif" is accepted for TIFF.
func ParseImageFormat(s string) (ImageFormat, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	if s == "tif" {
		return FormatTIFF, nil
	}
	for _, f := range imageFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension for f, including the dot.
func (f ImageFormat) Ext() string {
	return "." + string(f)
}

// Limits on atlas dimensions.
const (
	MinSize = 16
	MaxSize = 16384
)

// Config holds atlas configuration.
type Config struct {
	// Width of the atlas surface in pixels. Default: 1024
	Width int `toml:"width"`

	// Height of the atlas surface in pixels. Default: 1024
	Height int `toml:"height"`

	// Depth is the number of bytes per pixel. Default: 1
	Depth Depth `toml:"depth"`

	// ImageFormat is the codec used by Save. Default: png
	ImageFormat ImageFormat `toml:"image_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:       1024,
		Height:      1024,
		Depth:       DepthGray,
		ImageFormat: FormatPNG,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Width < MinSize {
		return &ConfigError{Field: "Width", Reason: fmt.Sprintf("must be at least %d", MinSize)}
	}
	if c.Width > MaxSize {
		return &ConfigError{Field: "Width", Reason: fmt.Sprintf("must be at most %d", MaxSize)}
	}
	if c.Height < MinSize {
		return &ConfigError{Field: "Height", Reason: fmt.Sprintf("must be at least %d", MinSize)}
	}
	if c.Height > MaxSize {
		return &ConfigError{Field: "Height", Reason: fmt.Sprintf("must be at most %d", MaxSize)}
	}
	if !c.Depth.Valid() {
		return &ConfigError{Field: "Depth", Reason: "must be 1 or 4"}
	}
	if _, err := ParseImageFormat(string(c.ImageFormat)); err != nil {
		return &ConfigError{Field: "ImageFormat", Reason: "must be png, tiff or bmp"}
	}
	return nil
}

// LoadConfig reads a TOML configuration file. Keys missing from the file
// keep their DefaultConfig values. Unknown keys are logged and ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("atlas: load config %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		glyphatlas.Logger().Warn("atlas: unknown config key", "path", path, "key", k.String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeConfig parses TOML configuration from a string, applying
// defaults like LoadConfig.
func DecodeConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("atlas: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
