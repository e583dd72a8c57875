package sheet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSourceImageValidation(t *testing.T) {
	cases := []struct {
		name    string
		w, h, s int
		n       int
		wantErr bool
	}{
		{"ok_bgra", 2, 2, StrideBGRA, 16, false},
		{"ok_gray", 3, 1, StrideGray, 3, false},
		{"short_buffer", 2, 2, StrideBGRA, 15, true},
		{"bad_stride", 2, 2, 3, 12, true},
		{"zero_width", 0, 2, StrideBGRA, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewSourceImage(c.w, c.h, c.s, make([]byte, c.n))
			if c.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFromImageBGRAOrder(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	img.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	src := FromImage(img)
	require.Equal(t, StrideBGRA, src.Stride)
	require.Equal(t, []byte{30, 20, 10, 40, 3, 2, 1, 255}, src.Pix)

	// generic path (RGBA, opaque) must agree with the NRGBA fast path
	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	require.Equal(t, []byte{3, 2, 1, 255}, FromImage(rgba).Pix)
}

func TestFromImageGrayAndSubImage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range g.Pix {
		g.Pix[i] = byte(i)
	}
	sub := g.SubImage(image.Rect(1, 1, 3, 3)).(*image.Gray)

	src := FromImage(sub)
	require.Equal(t, StrideGray, src.Stride)
	require.Equal(t, 2, src.Width)
	require.Equal(t, []byte{5, 6, 9, 10}, src.Pix)
}

func TestDecodeFilePNGRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 30), B: 7, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "sheet.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	src, err := DecodeFile(path)
	require.NoError(t, err)
	require.Equal(t, 12, src.Width)
	require.Equal(t, 8, src.Height)

	back := src.Image().(*image.NRGBA)
	require.Equal(t, img.Pix, back.Pix)
}

func TestDecodeErrors(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	require.Error(t, err)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}
