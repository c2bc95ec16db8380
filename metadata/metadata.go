/*
Package metadata reads integer fields from the small metadata file written
next to the raw pixel data by the image-producing collaborator.

The file is trusted and tiny, typically something like:

	{"width": 64, "height": 40, "channels": 3, "bytes": 7680}

This is deliberately not a JSON parser. A key is located by searching for
the literal text "key" anywhere in the file, so a key that also appears
inside a string value earlier in the file will be matched instead. Nested
objects, escaping and quoting are not understood.
*/
package metadata

import (
	"bytes"
	"io/ioutil"
)

const (
	// Filename is the expected filename of the metadata file
	Filename = "meta.json"

	// WidthKey and HeightKey name the image dimension fields
	WidthKey  = "width"
	HeightKey = "height"
)

const maxInt = int(^uint(0) >> 1)

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Parse returns the integer that follows "key": in b. The second return
// value is false if the key, the colon or a digit could not be found, or if
// the digits do not fit in an int.
func Parse(b []byte, key string) (int, bool) {
	i := bytes.Index(b, []byte(`"`+key+`"`))
	if i < 0 {
		return 0, false
	}

	j := bytes.IndexByte(b[i:], ':')
	if j < 0 {
		return 0, false
	}
	i += j + 1

	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}

	neg := false
	if i < len(b) && b[i] == '-' {
		neg = true
		i++
	}

	var v int
	start := i
	for i < len(b) && isDigit(b[i]) {
		d := int(b[i] - '0')
		if v > (maxInt-d)/10 {
			return 0, false
		}
		v = v*10 + d
		i++
	}
	if i == start {
		return 0, false
	}

	if neg {
		v = -v
	}

	return v, true
}

// Lookup reads the file at path and returns the integer following key. A
// missing or unreadable file is reported the same way as a missing key.
func Lookup(path, key string) (int, bool) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return Parse(b, key)
}

// Dimensions returns the width and height stored in the file at path. Both
// must be present and positive.
func Dimensions(path string) (int, int, bool) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, 0, false
	}

	w, ok := Parse(b, WidthKey)
	if !ok || w <= 0 {
		return 0, 0, false
	}

	h, ok := Parse(b, HeightKey)
	if !ok || h <= 0 {
		return 0, 0, false
	}

	return w, h, true
}
