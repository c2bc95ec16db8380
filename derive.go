package paintwall

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects how a palette is derived from an image.
type Method int

// Supported methods.
const (
	MethodMedianCut Method = iota
	MethodKMeans
	MethodDominant
)

// Keep k-means tractable on large images
const maxSamples = 12000

var errNoColors = errors.New("paintwall: no colors derived")

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodDominant:
		return "dominant"
	default:
		return "mediancut"
	}
}

// ParseMethod is the inverse of Method.String.
func ParseMethod(s string) (Method, error) {
	for _, m := range []Method{MethodMedianCut, MethodKMeans, MethodDominant} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("paintwall: unknown palette method %q", s)
}

func medianCut(m image.Image, k int) Palette {
	q := quantize.MedianCutQuantizer{}
	return FromColorPalette(q.Quantize(make(color.Palette, 0, k), m))
}

func dominant(m image.Image, k int) Palette {
	var p Palette
	for _, c := range dominantcolor.FindWeight(m, k) {
		p = append(p, Color{c.RGBA.R, c.RGBA.G, c.RGBA.B})
	}
	return p
}

func kMeans(m image.Image, k int) Palette {
	bounds := m.Bounds()
	if bounds.Empty() {
		return nil
	}

	step := 1
	if n := bounds.Dx() * bounds.Dy(); n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}

	var dataset clusters.Observations
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := m.At(x, y).RGBA()
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 0xffff,
				float64(g) / 0xffff,
				float64(b) / 0xffff,
			})
		}
	}

	if k > len(dataset) {
		k = len(dataset)
	}

	cc, err := kmeans.New().Partition(dataset, k)
	if err != nil {
		return nil
	}

	// Most populated clusters first
	sort.SliceStable(cc, func(i, j int) bool {
		return len(cc[i].Observations) > len(cc[j].Observations)
	})

	var p Palette
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < channels {
			continue
		}
		var col Color
		for i := range col {
			col[i] = uint8(math.Round(math.Max(0, math.Min(1, c.Center[i])) * 255))
		}
		p = append(p, col)
	}
	return p
}

// Derive builds a palette of at most k colors from m. It is intended for
// when no palette of paint colors has been supplied.
func Derive(m image.Image, k int, method Method) (Palette, error) {
	if k <= 0 {
		return nil, fmt.Errorf("paintwall: invalid palette size %d", k)
	}

	var p Palette
	switch method {
	case MethodKMeans:
		if p = kMeans(m, k); len(p) == 0 {
			p = dominant(m, k)
		}
	case MethodDominant:
		p = dominant(m, k)
	default:
		p = medianCut(m, k)
	}

	if len(p) == 0 {
		return nil, errNoColors
	}
	if len(p) > k {
		p = p[:k]
	}

	return p, nil
}
