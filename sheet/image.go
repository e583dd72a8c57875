package sheet

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Supported pixel strides.
const (
	StrideBGRA = 4
	StrideGray = 1
)

// SourceImage is a decoded raster. Pix is row-major with no padding between
// rows: len(Pix) == Width*Height*Stride. Stride 4 pixels are stored as
// non-premultiplied BGRA, stride 1 pixels as 8-bit gray.
//
// A SourceImage is never modified once built.
type SourceImage struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewSourceImage wraps an existing pixel buffer after checking that it is
// large enough for the given dimensions.
func NewSourceImage(width, height, stride int, pix []byte) (*SourceImage, error) {
	s := &SourceImage{Width: width, Height: height, Stride: stride, Pix: pix}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SourceImage) check() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("sheet: invalid image size %dx%d", s.Width, s.Height)
	}
	if s.Stride != StrideBGRA && s.Stride != StrideGray {
		return fmt.Errorf("sheet: unsupported pixel stride %d", s.Stride)
	}
	if want := s.Width * s.Height * s.Stride; len(s.Pix) < want {
		return fmt.Errorf("sheet: pixel buffer has %d bytes, need %d for %dx%d", len(s.Pix), want, s.Width, s.Height)
	}
	return nil
}

// FromImage converts any image.Image into a SourceImage. Gray images keep a
// single byte per pixel, everything else becomes BGRA.
func FromImage(img image.Image) *SourceImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if g, ok := img.(*image.Gray); ok {
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], g.Pix[off:off+w])
		}
		return &SourceImage{Width: w, Height: h, Stride: StrideGray, Pix: pix}
	}

	pix := make([]byte, w*h*StrideBGRA)
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			off := n.PixOffset(b.Min.X, b.Min.Y+y)
			row := n.Pix[off : off+w*4]
			dst := pix[y*w*4 : (y+1)*w*4]
			for x := 0; x < w; x++ {
				i := x * 4
				dst[i], dst[i+1], dst[i+2], dst[i+3] = row[i+2], row[i+1], row[i], row[i+3]
			}
		}
		return &SourceImage{Width: w, Height: h, Stride: StrideBGRA, Pix: pix}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.B, c.G, c.R, c.A
		}
	}
	return &SourceImage{Width: w, Height: h, Stride: StrideBGRA, Pix: pix}
}

// Decode reads a compressed image (PNG, BMP or WebP) and returns its raster
// along with the format name reported by the decoder.
func Decode(r io.Reader) (*SourceImage, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("sheet: decode: %w", err)
	}
	return FromImage(img), format, nil
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (*SourceImage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: read %s: %w", path, err)
	}
	src, _, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("sheet: %s: %w", path, err)
	}
	return src, nil
}

// Image returns the raster as a standard library image. The pixel data is
// copied so the result can be modified freely.
func (s *SourceImage) Image() image.Image {
	return toImage(s.Width, s.Height, s.Stride, s.Pix)
}

func toImage(w, h, stride int, pix []byte) image.Image {
	if stride == StrideGray {
		g := image.NewGray(image.Rect(0, 0, w, h))
		copy(g.Pix, pix)
		return g
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pix) && i+3 < len(out.Pix); i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = pix[i+2], pix[i+1], pix[i], pix[i+3]
	}
	return out
}
