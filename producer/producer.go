/*
Package producer implements the image-producing collaborator in Go. It
decodes an image, shrinks it to fit within a maximum size and writes the raw
RGB pixels plus a small metadata file where paintwall expects to find them.
*/
package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bodgit/paintwall/metadata"
	"github.com/disintegration/imaging"
)

const (
	// BinaryFilename is the raw RGB data written next to the metadata
	BinaryFilename = "pythonoutput.bin"

	channels = 3
)

// Meta is written as JSON to metadata.Filename
type Meta struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	Channels int `json:"channels"`
	Bytes    int `json:"bytes"`
}

func open(file string, maxWidth, maxHeight int) (image.Image, error) {
	m, err := imaging.Open(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	b := m.Bounds()
	if maxWidth > 0 && maxHeight > 0 && (b.Dx() > maxWidth || b.Dy() > maxHeight) {
		m = imaging.Fit(m, maxWidth, maxHeight, imaging.Lanczos)
	}

	return m, nil
}

// RGB returns the pixels of m as tightly packed R, G, B bytes in row-major
// order. Alpha is discarded.
func RGB(m image.Image) []byte {
	n := imaging.Clone(m)
	b := n.Bounds()

	pix := make([]byte, 0, b.Dx()*b.Dy()*channels)
	for y := 0; y < b.Dy(); y++ {
		row := n.Pix[y*n.Stride : y*n.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			pix = append(pix, row[x+0], row[x+1], row[x+2])
		}
	}

	return pix
}

// Produce writes the pixels of file to BinaryFilename and its dimensions to
// metadata.Filename, both in dir. If maxWidth and maxHeight are positive the
// image is shrunk to fit within them, preserving the aspect ratio.
func Produce(file, dir string, maxWidth, maxHeight int) (*Meta, error) {
	m, err := open(file, maxWidth, maxHeight)
	if err != nil {
		return nil, err
	}

	pix := RGB(m)
	meta := &Meta{
		Width:    m.Bounds().Dx(),
		Height:   m.Bounds().Dy(),
		Channels: channels,
		Bytes:    len(pix),
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	if err := ioutil.WriteFile(filepath.Join(dir, BinaryFilename), pix, 0644); err != nil {
		return nil, err
	}

	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := ioutil.WriteFile(filepath.Join(dir, metadata.Filename), b, 0644); err != nil {
		return nil, err
	}

	return meta, nil
}

// WriteDimensions writes the width and height of the image in file to out
// as two space-separated integers.
func WriteDimensions(file, out string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	config, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	return ioutil.WriteFile(out, []byte(fmt.Sprintf("%d %d", config.Width, config.Height)), 0644)
}

// Matrix runs Produce as a source.Provider.
type Matrix struct {
	Image     string
	Dir       string
	MaxWidth  int
	MaxHeight int
}

// Produce implements source.Provider.
func (p *Matrix) Produce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := Produce(p.Image, p.Dir, p.MaxWidth, p.MaxHeight)
	return err
}

// Dimensions runs WriteDimensions as a source.Provider.
type Dimensions struct {
	Image  string
	Output string
}

// Produce implements source.Provider.
func (p *Dimensions) Produce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteDimensions(p.Image, p.Output)
}
