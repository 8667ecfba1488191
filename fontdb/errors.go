package fontdb

import "errors"

var (
	// ErrUnknownFont is returned for a font id that was never registered.
	ErrUnknownFont = errors.New("fontdb: unknown font")

	// ErrTooManyFonts is returned when the registry has no ids left.
	ErrTooManyFonts = errors.New("fontdb: too many fonts")
)
