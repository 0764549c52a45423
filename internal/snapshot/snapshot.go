package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
)

const (
	// MaxResolution bounds both sides of a captured image.
	MaxResolution = 3840
	// Dir is the only directory snapshots may be written to.
	Dir = "/data/local/tmp/"
	// JpegQuality is the encoder quality used for jpeg output.
	JpegQuality = 75
)

// Format is the encoding of a snapshot file.
type Format string

const (
	FormatJpeg Format = "jpeg"
	FormatPng  Format = "png"
)

// ParseFormat accepts "jpeg" and "png", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJpeg, FormatPng:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported image type %q", s)
	}
}

// Ext returns the file extension snapshots of this format must use.
func (f Format) Ext() string {
	return "." + string(f)
}

var (
	ErrInvalidParam = errors.New("invalid snapshot parameters")
	ErrInvalidFile  = errors.New("invalid snapshot file name")
)

// Param describes a frame to encode.
type Param struct {
	Width  int
	Height int
	Stride int
	Format display.PixelFormat
	Data   []byte
}

// FromPixelMap wraps a captured frame.
func FromPixelMap(pm *display.PixelMap) Param {
	return Param{Width: pm.Width, Height: pm.Height, Stride: pm.Stride, Format: pm.Format, Data: pm.Data}
}

// DefaultFileName returns a timestamped name in Dir.
func DefaultFileName(now time.Time, f Format) string {
	return Dir + "snapshot_" + now.Format("2006-01-02_15-04-05") + f.Ext()
}

// CheckFileNameValid reports whether name is a file directly inside Dir
// with the extension of f.
func CheckFileNameValid(name string, f Format) bool {
	if name == "" || !strings.HasPrefix(name, Dir) {
		return false
	}
	base := strings.TrimPrefix(name, Dir)
	if base == "" || strings.Contains(base, "/") || filepath.Clean(name) != name {
		return false
	}
	stem := strings.TrimSuffix(base, f.Ext())
	return stem != base && stem != ""
}

// CheckWHValid reports whether a side length is in (0, MaxResolution].
func CheckWHValid(v int) bool {
	return v > 0 && v <= MaxResolution
}

// CheckParamValid reports whether p describes a complete frame in a known
// pixel format.
func CheckParamValid(p Param) bool {
	if !CheckWHValid(p.Width) || !CheckWHValid(p.Height) {
		return false
	}
	bpp := p.Format.BytesPerPixel()
	if bpp == 0 || p.Stride < p.Width*bpp {
		return false
	}
	return len(p.Data) >= p.Stride*(p.Height-1)+p.Width*bpp
}

// RGBA8888ToRGB888 drops the alpha channel of pixels RGBA pixels.
func RGBA8888ToRGB888(dst, src []byte, pixels int) error {
	if pixels <= 0 || len(src) < pixels*4 || len(dst) < pixels*3 {
		return ErrInvalidParam
	}
	for i := 0; i < pixels; i++ {
		copy(dst[i*3:i*3+3], src[i*4:i*4+3])
	}
	return nil
}

// RGB565ToRGB888 expands little-endian RGB565 pixels to 8 bits a channel.
func RGB565ToRGB888(dst, src []byte, pixels int) error {
	if pixels <= 0 || len(src) < pixels*2 || len(dst) < pixels*3 {
		return ErrInvalidParam
	}
	for i := 0; i < pixels; i++ {
		v := uint16(src[i*2]) | uint16(src[i*2+1])<<8
		r := byte(v >> 11 & 0x1F)
		g := byte(v >> 5 & 0x3F)
		b := byte(v & 0x1F)
		dst[i*3] = r<<3 | r>>2
		dst[i*3+1] = g<<2 | g>>4
		dst[i*3+2] = b<<3 | b>>2
	}
	return nil
}

// rgbImage is a packed RGB888 image.
type rgbImage struct {
	pix    []byte
	width  int
	height int
}

func (m *rgbImage) ColorModel() color.Model { return color.RGBAModel }
func (m *rgbImage) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

func (m *rgbImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.Bounds()) {
		return color.RGBA{}
	}
	i := (y*m.width + x) * 3
	return color.RGBA{R: m.pix[i], G: m.pix[i+1], B: m.pix[i+2], A: 0xFF}
}

// toRGB888 converts p row by row, honouring its stride.
func toRGB888(p Param) (*rgbImage, error) {
	if !CheckParamValid(p) {
		return nil, ErrInvalidParam
	}

	img := &rgbImage{pix: make([]byte, p.Width*p.Height*3), width: p.Width, height: p.Height}
	bpp := p.Format.BytesPerPixel()
	for y := 0; y < p.Height; y++ {
		src := p.Data[y*p.Stride : y*p.Stride+p.Width*bpp]
		dst := img.pix[y*p.Width*3 : (y+1)*p.Width*3]

		var err error
		switch p.Format {
		case display.FormatRGBA8888:
			err = RGBA8888ToRGB888(dst, src, p.Width)
		case display.FormatRGB565:
			err = RGB565ToRGB888(dst, src, p.Width)
		case display.FormatRGB888:
			copy(dst, src)
		}
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

// WriteToJpeg encodes p as jpeg.
func WriteToJpeg(w io.Writer, p Param) error {
	img, err := toRGB888(p)
	if err != nil {
		return err
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: JpegQuality})
}

// WriteToPng encodes p as png.
func WriteToPng(w io.Writer, p Param) error {
	img, err := toRGB888(p)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Write encodes p in format f.
func Write(w io.Writer, p Param, f Format) error {
	switch f {
	case FormatJpeg:
		return WriteToJpeg(w, p)
	case FormatPng:
		return WriteToPng(w, p)
	default:
		return fmt.Errorf("unsupported image type %q", f)
	}
}

// WriteFile validates name and p, then writes the encoded frame. A failed
// encode removes the partial file.
func WriteFile(name string, p Param, f Format) (err error) {
	if !CheckFileNameValid(name, f) {
		return fmt.Errorf("%w: %s", ErrInvalidFile, name)
	}
	if !CheckParamValid(p) {
		return ErrInvalidParam
	}

	file, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	return Write(file, p, f)
}

// WritePixelMap writes a captured frame to name.
func WritePixelMap(name string, pm *display.PixelMap, f Format) error {
	if pm == nil {
		return ErrInvalidParam
	}
	return WriteFile(name, FromPixelMap(pm), f)
}

// Scale resamples pm to width x height with nearest-neighbour sampling.
// The frame is returned as is when the size already matches.
func Scale(pm *display.PixelMap, width, height int) (*display.PixelMap, error) {
	if pm == nil || !CheckWHValid(width) || !CheckWHValid(height) || !CheckParamValid(FromPixelMap(pm)) {
		return nil, ErrInvalidParam
	}
	if pm.Width == width && pm.Height == height {
		return pm, nil
	}

	bpp := pm.Format.BytesPerPixel()
	out := &display.PixelMap{
		Width:  width,
		Height: height,
		Stride: width * bpp,
		Format: pm.Format,
		Data:   make([]byte, width*height*bpp),
	}
	for y := 0; y < height; y++ {
		sy := y * pm.Height / height
		for x := 0; x < width; x++ {
			sx := x * pm.Width / width
			si := sy*pm.Stride + sx*bpp
			di := y*out.Stride + x*bpp
			copy(out.Data[di:di+bpp], pm.Data[si:si+bpp])
		}
	}
	return out, nil
}

// DisplaySource resolves display ids for the snapshot command.
type DisplaySource interface {
	GetDisplayByID(id uint64) (display.Display, error)
	GetDefaultDisplayID() uint64
}

// ResolveDisplayID picks the display to capture: the requested one when it
// was set, otherwise the default display. A requested display that does
// not exist is an error.
func ResolveDisplayID(src DisplaySource, id uint64, set bool) (uint64, error) {
	if !set {
		return src.GetDefaultDisplayID(), nil
	}
	if _, err := src.GetDisplayByID(id); err != nil {
		return 0, fmt.Errorf("display %d not found: %w", id, err)
	}
	return id, nil
}
