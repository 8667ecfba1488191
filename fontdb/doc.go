// Package fontdb keeps the set of fonts a program renders with and
// assigns each one the dense integer id used in atlas keys.
//
// Fonts are parsed with golang.org/x/image/font/sfnt for their names and
// metrics. Rasterization and shaping live elsewhere; this package only
// identifies fonts.
package fontdb
