package atlas

import "errors"

// Sentinel errors for the atlas package.
var (
	// ErrGlyphTooLarge is returned when a glyph does not fit into an
	// empty atlas.
	ErrGlyphTooLarge = errors.New("atlas: glyph larger than atlas")

	// ErrDepth is returned when an image does not match the atlas
	// channel depth or size.
	ErrDepth = errors.New("atlas: image does not match atlas format")

	// ErrUnknownFormat is returned for an unsupported image format.
	ErrUnknownFormat = errors.New("atlas: unknown image format")

	// ErrNoRenderer is returned by Lookup on a miss with a nil renderer.
	ErrNoRenderer = errors.New("atlas: glyph not cached and no renderer")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
