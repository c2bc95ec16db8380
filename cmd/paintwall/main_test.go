package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a fresh directory holding a 3x2 PNG, as the collaborator
// artifacts are written relative to the working directory.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })

	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 100), uint8(y * 100), 50, 255})
		}
	}

	f, err := os.Create("image.png")
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))

	return dir
}

func run(t *testing.T, args ...string) (string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	require.NoError(t, app.Run(append([]string{"paintwall"}, args...)))

	return stdout.String(), stderr.String()
}

const fullHeader = "Debug: printing full matrix (2x3x3) as rows of (r,g,b) values\n"

func TestProcessTerse(t *testing.T) {
	chdir(t)
	t.Setenv(fullMatrixEnv, "")

	stdout, stderr := run(t, "process", "--image", "image.png")
	assert.Equal(t, "Debug: first 10 values of matrix: 0 0 50 100 0 50 200 0 50 0 \n", stdout)
	assert.NotContains(t, stderr, "Warning")
	assert.Contains(t, stderr, "Matrix ready")
}

func TestProcessFullMatrix(t *testing.T) {
	want := fullHeader + "(0,0,50) (100,0,50) (200,0,50)\n(0,100,50) (100,100,50) (200,100,50)\n"

	tables := []struct {
		name string
		env  string
		args []string
	}{
		{"flag", "", []string{"--full"}},
		{"environment", "1", nil},
		{"environment any value", "no", nil},
		{"both", "yes", []string{"--full"}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			chdir(t)
			t.Setenv(fullMatrixEnv, table.env)

			stdout, _ := run(t, append([]string{"process", "--image", "image.png"}, table.args...)...)
			assert.Equal(t, want, stdout)
		})
	}
}

func TestProcessPaletteFile(t *testing.T) {
	dir := chdir(t)
	t.Setenv(fullMatrixEnv, "1")
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "paint.txt"), []byte("; black and red\n#000000\n#ff0000\n"), 0644))

	stdout, _ := run(t, "process", "--image", "image.png", "--palette-file", "paint.txt")

	// Acquired matrix, then the mapped one
	require.Equal(t, 2, strings.Count(stdout, fullHeader))
	mapped := stdout[strings.LastIndex(stdout, fullHeader)+len(fullHeader):]
	assert.Equal(t, "(0,0,0) (0,0,0) (255,0,0)\n(0,0,0) (0,0,0) (255,0,0)\n", mapped)
}

func TestPaletteCommands(t *testing.T) {
	dir := chdir(t)
	db := filepath.Join(dir, "test.db")
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "bw.txt"), []byte("000000\nffffff\n"), 0644))

	run(t, "--db", db, "palette", "import", "bw", "bw.txt")

	stdout, _ := run(t, "--db", db, "palette", "list")
	assert.Equal(t, "bw\n", stdout)

	stdout, _ = run(t, "--db", db, "palette", "show", "bw")
	assert.Equal(t, "#000000\n#ffffff\n", stdout)

	run(t, "--db", db, "palette", "delete", "bw")
	stdout, _ = run(t, "--db", db, "palette", "list")
	assert.Empty(t, stdout)
}
