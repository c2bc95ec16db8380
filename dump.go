package paintwall

import (
	"bufio"
	"fmt"
	"io"
)

const dumpValues = 10

// Dump writes the matrix to w. By default only the first few values are
// written, with full set every pixel is written as (r,g,b) with one line
// per row.
func (c *Core) Dump(w io.Writer, full bool) error {
	bw := bufio.NewWriter(w)

	if !full {
		n := len(c.matrix)
		if n > dumpValues {
			n = dumpValues
		}
		fmt.Fprintf(bw, "Debug: first %d values of matrix: ", n)
		for _, v := range c.matrix[:n] {
			fmt.Fprintf(bw, "%d ", v)
		}
		fmt.Fprintln(bw)
		return bw.Flush()
	}

	fmt.Fprintf(bw, "Debug: printing full matrix (%dx%dx%d) as rows of (r,g,b) values\n", c.height, c.width, channels)
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			i := (y*c.width + x) * channels
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "(%d,%d,%d)", c.matrix[i+0], c.matrix[i+1], c.matrix[i+2])
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
