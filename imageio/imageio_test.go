package imageio

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/submersibletoaster/tilematcher/internal/testimg"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "png", Format("out"))
	assert.Equal(t, "png", Format("a/b/Tiles.PNG"))
	assert.Equal(t, "tiff", Format("x.tiff"))
	assert.Equal(t, "webp", Format("x.webp"))
}

func TestLosslessRoundTrip(t *testing.T) {
	src := testimg.Checker(4, testimg.RGB(10, 20, 30), testimg.RGB(200, 100, 0))
	for _, ext := range []string{"png", "bmp", "tiff"} {
		path := filepath.Join(t.TempDir(), "tiles."+ext)
		require.NoError(t, Save(path, src), ext)
		got, err := Load(path)
		require.NoError(t, err, ext)
		assert.Equal(t, src.Bounds(), got.Bounds(), ext)
		for _, p := range []image.Point{{0, 0}, {1, 0}, {3, 2}} {
			r1, g1, b1, a1 := src.At(p.X, p.Y).RGBA()
			r2, g2, b2, a2 := got.At(p.X, p.Y).RGBA()
			assert.Equal(t, [4]uint32{r1, g1, b1, a1}, [4]uint32{r2, g2, b2, a2}, ext)
		}
	}
}

func TestEncodeDecodeLossy(t *testing.T) {
	src := testimg.Solid(8, 8, testimg.RGB(40, 80, 120))
	for _, f := range []string{"jpeg", "gif"} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, src, f))
		img, format, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, f, format)
		assert.Equal(t, src.Bounds(), img.Bounds())
	}
}

func TestSaveUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.webp")
	assert.Error(t, Save(path, testimg.Solid(2, 2, testimg.RGB(0, 0, 0))))
	_, err := Load(path)
	assert.Error(t, err)
}
