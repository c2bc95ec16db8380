package paintwall

import (
	"errors"
	"math"
)

var (
	// ErrEmptyPalette is returned when mapping against an empty palette
	ErrEmptyPalette = errors.New("paintwall: empty palette")
	// ErrEmptyBuffer is returned when there are no pixels to map
	ErrEmptyBuffer = errors.New("paintwall: empty buffer")
	// ErrMisaligned is returned when the buffer is not a whole number of pixels
	ErrMisaligned = errors.New("paintwall: buffer length not a multiple of 3")
)

// Squared channel differences never exceed 3 * 255^2 so uint32 is plenty
// for 8-bit channels. Wider channels need a wider accumulator.
func sqDist(r, g, b int, c Color) uint32 {
	dr := r - int(c[0])
	dg := g - int(c[1])
	db := b - int(c[2])
	return uint32(dr*dr + dg*dg + db*db)
}

// Nearest returns the index of the entry in p closest to (r, g, b). Ties
// go to the earliest entry. It returns -1 if p is empty.
func Nearest(p Palette, r, g, b uint8) int {
	best, bestDist := -1, uint32(math.MaxUint32)
	for i, c := range p {
		if d := sqDist(int(r), int(g), int(b), c); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MapToNearestColor replaces every pixel in pix with the closest color in p
// by Euclidean RGB distance. pix is modified in place; if an error is
// returned it is left untouched.
//
// Every pixel is compared against every palette entry so this is only
// suitable for small palettes.
func MapToNearestColor(pix []byte, p Palette) error {
	switch {
	case len(p) == 0:
		return ErrEmptyPalette
	case len(pix) == 0:
		return ErrEmptyBuffer
	case len(pix)%channels != 0:
		return ErrMisaligned
	}

	for i := 0; i < len(pix); i += channels {
		c := p[Nearest(p, pix[i+0], pix[i+1], pix[i+2])]
		pix[i+0], pix[i+1], pix[i+2] = c[0], c[1], c[2]
	}

	return nil
}

// MapToNearestColor maps the matrix of c onto p.
func (c *Core) MapToNearestColor(p Palette) error {
	return MapToNearestColor(c.matrix, p)
}
