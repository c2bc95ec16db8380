package paintwall

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit R, G, B triple
type Color [channels]uint8

// RGBA implements the color.Color interface. The color is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c[0], c[1], c[2], 0xff}.RGBA()
}

// Hex returns the color formatted as #rrggbb
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c[0]) / 255.0,
		G: float64(c[1]) / 255.0,
		B: float64(c[2]) / 255.0,
	}.Hex()
}

// Palette is an ordered list of candidate colors. Order matters: when two
// entries are equally close to a pixel the earlier one is used.
type Palette []Color

// FromColorPalette converts p, discarding any alpha.
func FromColorPalette(p color.Palette) Palette {
	out := make(Palette, 0, len(p))
	for _, c := range p {
		r, g, b, _ := c.RGBA()
		out = append(out, Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
	}
	return out
}

// ColorPalette converts p for use with the image/color package.
func (p Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = c
	}
	return out
}

func (p Palette) String() string {
	s := make([]string, len(p))
	for i, c := range p {
		s[i] = c.Hex()
	}
	return strings.Join(s, " ")
}

// ParseColor parses a hex color such as #ff8800, ff8800 or #f80
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

// ParsePalette reads one hex color per line from r. Blank lines and lines
// starting with ';' are ignored.
func ParsePalette(r io.Reader) (Palette, error) {
	var p Palette
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}
		c, err := ParseColor(text)
		if err != nil {
			return nil, fmt.Errorf("palette: line %d: %w", line, err)
		}
		p = append(p, c)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return p, nil
}
