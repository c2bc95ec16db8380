package metadata

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), Filename)
	require.NoError(t, ioutil.WriteFile(file, []byte(contents), 0644))
	return file
}

func TestParse(t *testing.T) {
	tables := []struct {
		name  string
		input string
		key   string
		value int
		ok    bool
	}{
		{"compact", `{"width":64,"height":40}`, "width", 64, true},
		{"spaces", `{"width":   64, "height":	40}`, "height", 40, true},
		{"negative", `{"offset": -12}`, "offset", -12, true},
		{"trailing garbage", `{"width": 12px}`, "width", 12, true},
		{"overflow", `{"width": 99999999999999999999999}`, "width", 0, false},
		{"missing key", `{"height": 40}`, "width", 0, false},
		{"missing colon", `{"width" 64}`, "width", 0, false},
		{"string value", `{"width": "64"}`, "width", 0, false},
		{"bare minus", `{"width": -}`, "width", 0, false},
		{"empty value", `{"width":`, "width", 0, false},
		{"unquoted key", `{width: 64}`, "width", 0, false},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			v, ok := Parse([]byte(table.input), table.key)
			assert.Equal(t, table.ok, ok)
			assert.Equal(t, table.value, v)
		})
	}
}

// The first occurrence of the quoted key wins, even inside a string value.
func TestParseFalsePositive(t *testing.T) {
	v, ok := Parse([]byte(`{"unit": "width", "scale": 3, "width": 64}`), "width")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestLookup(t *testing.T) {
	file := writeFile(t, "{\n  \"width\": 320,\n  \"height\": 240,\n  \"channels\": 3\n}\n")

	v, ok := Lookup(file, "channels")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = Lookup(filepath.Join(t.TempDir(), "missing.json"), "width")
	assert.False(t, ok)
}

func TestDimensions(t *testing.T) {
	tables := []struct {
		name          string
		input         string
		width, height int
		ok            bool
	}{
		{"valid", `{"width": 320, "height": 240}`, 320, 240, true},
		{"reversed", `{"height": 1, "width": 2}`, 2, 1, true},
		{"zero width", `{"width": 0, "height": 240}`, 0, 0, false},
		{"negative height", `{"width": 320, "height": -240}`, 0, 0, false},
		{"missing height", `{"width": 320}`, 0, 0, false},
		{"non-numeric", `{"width": "wide", "height": 240}`, 0, 0, false},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			w, h, ok := Dimensions(writeFile(t, table.input))
			assert.Equal(t, table.ok, ok)
			assert.Equal(t, table.width, w)
			assert.Equal(t, table.height, h)
		})
	}

	_, _, ok := Dimensions(filepath.Join(t.TempDir(), "missing.json"))
	assert.False(t, ok)
}
