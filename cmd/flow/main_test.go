package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerateExports(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, err := execute(t, "generate",
		"-W", "8", "-H", "6", "-p", "2", "-r", "4", "--seed", "11",
		"--out", dir, "--format", "bmp", "--scale", "2", "--view", "state",
		"--progress-interval", "1ms")
	require.NoError(t, err, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, "Done.", lines[len(lines)-1])
	assert.Contains(t, stderr, "generation finished")
	assert.Contains(t, stderr, "image written")

	f, err := os.Open(filepath.Join(dir, "00001.bmp"))
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, []uint32{0, 0, 255}, []uint32{r >> 8, g >> 8, b >> 8}, "state view shows settled cells blue")
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, _, err := execute(t, "generate", "-W", "2", "-H", "2", "-p", "5", "--out", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds grid capacity 4")

	_, _, err = execute(t, "generate", "--algorithm", "nope", "--out", "")
	assert.ErrorContains(t, err, `unknown algorithm "nope"`)

	_, _, err = execute(t, "generate", "--format", "gif", "--out", "")
	assert.Error(t, err)
}

func TestGenerateWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 5\nheight: 4\npoints: 1\nseeds: [\"2:2\"]\nout: \""+filepath.ToSlash(dir)+"\"\n"), 0o644))

	_, stderr, err := execute(t, "generate", "--config", path, "--progress-interval", "1ms")
	require.NoError(t, err, stderr)
	_, err = os.Stat(filepath.Join(dir, "00001.png"))
	assert.NoError(t, err)
}

func TestViewsAndAlgorithms(t *testing.T) {
	out, _, err := execute(t, "views")
	require.NoError(t, err)
	assert.Equal(t, "color\nstate\n", out)

	out, _, err = execute(t, "algorithms")
	require.NoError(t, err)
	assert.Equal(t, "flow\n", out)
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	out, stderr, err := execute(t, "sweep", "-W", "6", "-H", "5", "-r", "0,20", "-p", "1,2", "--seeds", "3",
		"--workers", "2", "--out", dir, "--top", "2")
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "Sweeping 4 configurations (2 workers, 6x5)")
	assert.Contains(t, out, "Smoothest 2 results")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
