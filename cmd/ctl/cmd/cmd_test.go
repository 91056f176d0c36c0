package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpfielding/dicoslut.go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(context.Background(), "abc123")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)
}

func TestPalettes(t *testing.T) {
	out, err := run(t, "palettes")
	require.NoError(t, err)
	assert.Contains(t, strings.Fields(out), "hot_iron")

	out, err = run(t, "palettes", "--name", "test")
	require.NoError(t, err)
	var p struct {
		Name  string
		Red   []int
		Green []int
	}
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "test", p.Name)
	require.Len(t, p.Red, 256)
	assert.Equal(t, 200, p.Red[200])
	assert.Equal(t, 0, p.Green[200])

	_, err = run(t, "palettes", "--name", "nope")
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "lung")
}

func TestLUTCmd(t *testing.T) {
	out, err := run(t, "lut", "--bits", "8", "--center", "128", "--width", "256")
	require.NoError(t, err)
	var entries []struct {
		Stored     int
		Calibrated float64
		Display    uint8
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 256)
	assert.Equal(t, uint8(0), entries[0].Display)
	assert.Equal(t, uint8(255), entries[255].Display)

	out, err = run(t, "lut", "--bits", "4", "--signed", "--center", "0", "--width", "16", "-f", "text")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 16)
	assert.Equal(t, "-8\t-8\t0", lines[0])
	assert.Equal(t, "7\t7\t255", lines[15])

	_, err = run(t, "lut", "--bits", "20")
	assert.Error(t, err)
}

func TestReadFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pixel.BitsStored = 12
	cfg.Pixel.Signed = true
	var buf bytes.Buffer
	for _, v := range []uint16{0x0800, 0x07ff, 0x0fff, 0xf001} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	frame, err := ReadFrame(&buf, 2, 2, cfg)
	require.NoError(t, err)
	// high bits above bits stored are masked before sign extension
	assert.Equal(t, []int32{-2048, 2047, -1, 1}, frame.Samples)

	cfg.Pixel.Signed = false
	frame, err = ReadFrame(bytes.NewReader([]byte{0xff, 0x0f}), 1, 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int32{4095}, frame.Samples)

	_, err = ReadFrame(bytes.NewReader([]byte{1}), 1, 1, cfg)
	assert.ErrorContains(t, err, "data too small")
}

func TestRenderCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "frame.raw")
	raw := make([]byte, 4*4)
	for i := range raw {
		raw[i] = byte(i * 16)
	}
	require.NoError(t, os.WriteFile(in, raw, 0o644))

	out := filepath.Join(dir, "gray.png")
	_, err := run(t, "render", "--in", in, "--out", out, "--rows", "4", "--cols", "4",
		"--bits-allocated", "8", "--bits-stored", "8", "--center", "128", "--width", "256")
	require.NoError(t, err)
	img := decode(t, out)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	assert.Equal(t, color.Gray{Y: 0}, color.GrayModel.Convert(img.At(0, 0)))

	out = filepath.Join(dir, "color.png")
	_, err = run(t, "render", "--in", in, "--out", out, "--rows", "4", "--cols", "4",
		"--bits-allocated", "8", "--bits-stored", "8", "--palette", "test")
	require.NoError(t, err)
	img = decode(t, out)
	// auto window spans 0..240, so the last sample saturates red
	r, g, b, _ := img.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)

	_, err = run(t, "render", "--in", in, "--out", out, "--rows", "4", "--cols", "4",
		"--bits-allocated", "8", "--bits-stored", "8", "--palette", "nope")
	assert.Error(t, err)
}

func TestWritePNGRemovesPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	// png rejects images with no pixels
	err := WritePNG(path, image.NewGray(image.Rect(0, 0, 0, 0)))
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, WritePNG(path, image.NewGray(image.Rect(0, 0, 2, 2))))
	assert.Equal(t, image.Rect(0, 0, 2, 2), decode(t, path).Bounds())
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}
