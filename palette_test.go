package paintwall

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePalette(t *testing.T) {
	input := `; paint colors
#000000
ffffff

  #F80
#9c6736
`
	p, err := ParsePalette(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Palette{
		{0, 0, 0},
		{255, 255, 255},
		{255, 136, 0},
		{156, 103, 54},
	}, p)
	assert.Equal(t, "#000000 #ffffff #ff8800 #9c6736", p.String())
}

func TestParsePaletteError(t *testing.T) {
	_, err := ParsePalette(strings.NewReader("#000000\n#zzzzzz\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParsePaletteEmpty(t *testing.T) {
	p, err := ParsePalette(strings.NewReader("; nothing here\n\n"))
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestColorPalette(t *testing.T) {
	p := Palette{{10, 20, 30}, {200, 100, 0}}
	cp := p.ColorPalette()
	require.Len(t, cp, 2)
	assert.Equal(t, p, FromColorPalette(cp))

	assert.Equal(t, Palette{{1, 2, 3}}, FromColorPalette(color.Palette{color.RGBA{1, 2, 3, 255}}))
}
