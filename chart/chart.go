// Package chart draws the dashboard charts as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Palette is the ten-colour categorical cycle; series and slices take
// colours in order
var Palette = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

var (
	background = color.White
	ink        = color.RGBA{0x26, 0x27, 0x30, 0xff}
	gridColor  = color.RGBA{0xe6, 0xe9, 0xef, 0xff}
)

const labelSize = 13

var (
	faceOnce sync.Once
	face     font.Face
	faceErr  error
)

// labelFace returns the shared label face, parsed once from the embedded
// Go Regular font
func labelFace() (font.Face, error) {
	faceOnce.Do(func() {
		fnt, err := opentype.Parse(goregular.TTF)
		if err != nil {
			faceErr = fmt.Errorf("failed to parse label font: %w", err)
			return
		}
		face, faceErr = opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    labelSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return face, faceErr
}

func colorAt(i int) color.RGBA {
	return Palette[i%len(Palette)]
}

func newCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return img
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// textWidth returns the advance of s in pixels
func textWidth(f font.Face, s string) int {
	return font.MeasureString(f, s).Ceil()
}

// drawText draws s with its baseline at y, horizontally centred on x
func drawText(dst draw.Image, f font.Face, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f,
		Dot:  fixed.P(x-textWidth(f, s)/2, y),
	}
	d.DrawString(s)
}

// drawTextLeft draws s with its baseline at y starting at x
func drawTextLeft(dst draw.Image, f font.Face, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// middleOffset is how far below a point the baseline goes so the text
// looks vertically centred on it
func middleOffset(f font.Face) int {
	m := f.Metrics()
	return (m.Ascent - m.Descent).Ceil() / 2
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
