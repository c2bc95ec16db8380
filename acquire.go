package paintwall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/paintwall/metadata"
	"github.com/bodgit/paintwall/source"
)

const (
	defaultWidth  = 8
	defaultHeight = 8

	// MaxPixels bounds width*height so the matrix can always be allocated
	MaxPixels = 1 << 26
)

var (
	// ErrNoProvider is recorded when a collaborator stage has no provider
	ErrNoProvider = errors.New("paintwall: no provider configured")
	// ErrNoDimensions is recorded when no positive width and height within
	// MaxPixels were found
	ErrNoDimensions = errors.New("paintwall: no usable dimensions")
	// ErrShortRead is recorded when a binary artifact is smaller than the matrix
	ErrShortRead = errors.New("paintwall: short read")
)

// Stage identifies one step of the acquisition fallback chain.
type Stage int

// Stages in the order they are attempted.
const (
	StageProduce           Stage = iota + 1 // Run the image-producing collaborator
	StageMetadata                           // Dimensions from the metadata file
	StageLegacy                             // Dimensions from the legacy collaborator
	StageDefaultDimensions                  // Fixed 8x8 dimensions
	StagePrimaryBinary                      // Pixels from the collaborator binary
	StageFallbackBinary                     // Pixels from the legacy binary
	StageSynthetic                          // Generated test gradient
)

func (s Stage) String() string {
	switch s {
	case StageProduce:
		return "produce"
	case StageMetadata:
		return "metadata"
	case StageLegacy:
		return "legacy dimensions"
	case StageDefaultDimensions:
		return "default dimensions"
	case StagePrimaryBinary:
		return "primary binary"
	case StageFallbackBinary:
		return "fallback binary"
	case StageSynthetic:
		return "synthetic"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Attempt records a stage that was tried. A nil Err means it succeeded.
type Attempt struct {
	Stage Stage
	Err   error
}

// Outcome describes how the matrix was acquired.
type Outcome struct {
	Width  int
	Height int

	// Dimensions is the stage that supplied Width and Height
	Dimensions Stage
	// Pixels is the stage that supplied the matrix contents
	Pixels Stage

	Attempts []Attempt
}

// Synthetic reports whether the matrix holds generated rather than real
// pixel data.
func (o *Outcome) Synthetic() bool {
	return o.Pixels == StageSynthetic
}

// Failed returns the attempts that did not succeed, in order.
func (o *Outcome) Failed() []Attempt {
	var a []Attempt
	for _, attempt := range o.Attempts {
		if attempt.Err != nil {
			a = append(a, attempt)
		}
	}
	return a
}

func (o *Outcome) record(s Stage, err error) {
	o.Attempts = append(o.Attempts, Attempt{Stage: s, Err: err})
}

// AcquireOptions control the diagnostic dump written after acquisition.
type AcquireOptions struct {
	// Output receives the dump, nil disables it
	Output io.Writer
	// Verbose dumps the whole matrix instead of the first few values
	Verbose bool
}

func produce(ctx context.Context, p source.Provider) error {
	if p == nil {
		return ErrNoProvider
	}
	return p.Produce(ctx)
}

func readDimensions(file string) (int, int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var w, h int
	if _, err := fmt.Fscan(f, &w, &h); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", file, err)
	}
	if err := checkDimensions(w, h); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", file, err)
	}

	return w, h, nil
}

func checkDimensions(w, h int) error {
	switch {
	case w <= 0 || h <= 0:
		return fmt.Errorf("%dx%d: %w", w, h, ErrNoDimensions)
	case w > MaxPixels/h:
		return fmt.Errorf("%dx%d exceeds %d pixels: %w", w, h, MaxPixels, ErrNoDimensions)
	}
	return nil
}

// readBinary fills b from file. Extra trailing data is ignored.
func readBinary(file string, b []byte) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.ReadFull(f, b)
	switch err {
	case nil:
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return fmt.Errorf("%s: read %d of %d bytes: %w", file, n, len(b), ErrShortRead)
	default:
		return err
	}
}

func gradient(b []byte, width, height int) {
	dx, dy := width-1, height-1
	if dx < 1 {
		dx = 1
	}
	if dy < 1 {
		dy = 1
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * channels
			b[i+0] = byte(x * 255 / dx)
			b[i+1] = byte(y * 255 / dy)
			b[i+2] = 0
		}
	}
}

func (c *Core) dimensions(ctx context.Context, o *Outcome) (int, int) {
	if w, h, ok := metadata.Dimensions(c.config.Paths.Meta); ok {
		if err := checkDimensions(w, h); err != nil {
			o.record(StageMetadata, fmt.Errorf("%s: %w", c.config.Paths.Meta, err))
		} else {
			o.record(StageMetadata, nil)
			o.Dimensions = StageMetadata
			return w, h
		}
	} else {
		o.record(StageMetadata, fmt.Errorf("%s: %w", c.config.Paths.Meta, ErrNoDimensions))
	}

	err := produce(ctx, c.config.Legacy)
	if err == nil {
		var w, h int
		if w, h, err = readDimensions(c.config.Paths.LegacyDimensions); err == nil {
			o.record(StageLegacy, nil)
			o.Dimensions = StageLegacy
			return w, h
		}
	}
	o.record(StageLegacy, err)

	c.logger.Printf("Warning: could not determine image dimensions; using %dx%d fallback.\n", defaultWidth, defaultHeight)
	o.record(StageDefaultDimensions, nil)
	o.Dimensions = StageDefaultDimensions

	return defaultWidth, defaultHeight
}

// Acquire replaces the matrix using the first stage of the fallback chain
// that yields usable data. It never fails; the returned Outcome reports
// which stages were tried and which ones supplied the result.
func (c *Core) Acquire(ctx context.Context, opts AcquireOptions) *Outcome {
	o := new(Outcome)

	// Only the artifacts matter, a failing producer is not fatal
	if err := produce(ctx, c.config.Producer); err != nil {
		c.logger.Printf("Producer failed: %v\n", err)
		o.record(StageProduce, err)
	} else {
		o.record(StageProduce, nil)
	}

	c.width, c.height = c.dimensions(ctx, o)
	c.matrix = make([]byte, channels*c.height*c.width)

	o.Width, o.Height = c.width, c.height

	for _, s := range []struct {
		stage Stage
		file  string
	}{
		{StagePrimaryBinary, c.config.Paths.Binary},
		{StageFallbackBinary, c.config.Paths.LegacyBinary},
	} {
		err := readBinary(s.file, c.matrix)
		o.record(s.stage, err)
		if err == nil {
			o.Pixels = s.stage
			break
		}
	}

	if o.Pixels == 0 {
		gradient(c.matrix, c.width, c.height)
		c.logger.Println("Warning: no binary pixel data found; generated a test gradient instead.")
		o.record(StageSynthetic, nil)
		o.Pixels = StageSynthetic
	}

	if opts.Output != nil {
		if err := c.Dump(opts.Output, opts.Verbose); err != nil {
			c.logger.Printf("Unable to write matrix: %v\n", err)
		}
	}

	c.logger.Printf("Matrix ready (%d × %d × %d) from %s\n", channels, c.height, c.width, o.Pixels)

	return o
}
