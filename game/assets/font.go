package assets

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MonoBoldFace returns a bold monospaced face at the given point size (72 DPI, so points equal pixels)
func MonoBoldFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// DrawTextCentered draws s horizontally centred on centerX with the top of the glyphs at top
func DrawTextCentered(dst *image.RGBA, face font.Face, s string, centerX, top int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	width := d.MeasureString(s).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	d.Dot = fixed.P(centerX-width/2, top+ascent)
	d.DrawString(s)
}
