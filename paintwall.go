/*
Package paintwall is a library for turning an image into the RGB pixel
matrix consumed by the paintball wall painter.

A Core acquires its pixel matrix from external collaborators using an
ordered chain of fallbacks that always leaves it with something usable,
then optionally snaps every pixel to the nearest color of a palette of
paint colors.
*/
package paintwall

import (
	"image"
	"io/ioutil"
	"log"

	"github.com/bodgit/paintwall/source"
)

const channels = 3 // R, G, B

// Paths are the artifacts written by the external collaborators.
type Paths struct {
	// Meta holds "width" and "height" fields
	Meta string
	// Binary is raw RGB data written alongside Meta
	Binary string
	// LegacyBinary is raw RGB data written by older collaborators
	LegacyBinary string
	// LegacyDimensions holds a whitespace-separated width and height
	LegacyDimensions string
}

// DefaultPaths are relative to the working directory.
var DefaultPaths = Paths{
	Meta:             "image/out/meta.json",
	Binary:           "image/out/pythonoutput.bin",
	LegacyBinary:     "pythonoutput.bin",
	LegacyDimensions: "pythonoutput.txt",
}

// Config wires a Core to its collaborators. Either provider may be nil in
// which case that stage is skipped.
type Config struct {
	Producer source.Provider
	Legacy   source.Provider
	Paths    Paths
}

type Core struct {
	config Config
	logger *log.Logger

	width  int
	height int
	matrix []byte
}

// New returns a Core with an empty matrix. Zero-valued paths are replaced
// with their defaults and a nil logger discards everything.
func New(config Config, logger *log.Logger) *Core {
	p := &config.Paths
	if p.Meta == "" {
		p.Meta = DefaultPaths.Meta
	}
	if p.Binary == "" {
		p.Binary = DefaultPaths.Binary
	}
	if p.LegacyBinary == "" {
		p.LegacyBinary = DefaultPaths.LegacyBinary
	}
	if p.LegacyDimensions == "" {
		p.LegacyDimensions = DefaultPaths.LegacyDimensions
	}

	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	return &Core{
		config: config,
		logger: logger,
	}
}

// Width returns the number of columns in the matrix
func (c *Core) Width() int {
	return c.width
}

// Height returns the number of rows in the matrix
func (c *Core) Height() int {
	return c.height
}

// Pixels returns the matrix itself, not a copy. It is only valid until the
// next call to Acquire.
func (c *Core) Pixels() []byte {
	return c.matrix
}

// Image returns a copy of the matrix as an opaque RGBA image.
func (c *Core) Image() *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for i, j := 0, 0; i+channels <= len(c.matrix) && j < len(m.Pix); i, j = i+channels, j+4 {
		m.Pix[j+0] = c.matrix[i+0]
		m.Pix[j+1] = c.matrix[i+1]
		m.Pix[j+2] = c.matrix[i+2]
		m.Pix[j+3] = 0xff
	}
	return m
}
