package assets

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// OpaqueBounds returns the smallest rectangle containing every pixel with a
// non-zero alpha value. It returns an empty rectangle for fully transparent images.
func OpaqueBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false

	alpha := func(x, y int) bool {
		_, _, _, a := img.At(x, y).RGBA()
		return a != 0
	}
	switch src := img.(type) {
	case *image.RGBA:
		alpha = func(x, y int) bool { return src.Pix[src.PixOffset(x, y)+3] != 0 }
	case *image.NRGBA:
		alpha = func(x, y int) bool { return src.Pix[src.PixOffset(x, y)+3] != 0 }
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !alpha(x, y) {
				continue
			}
			found = true
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x+1 > maxX {
				maxX = x + 1
			}
			if y+1 > maxY {
				maxY = y + 1
			}
		}
	}

	if !found {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}

// Shrink insets r by margin on every side. A rectangle too small to shrink collapses to empty.
func Shrink(r image.Rectangle, margin int) image.Rectangle {
	return r.Inset(margin)
}

// Area returns the pixel area of r
func Area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

// NewCanvas returns a blank RGBA image of the given size
func NewCanvas(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Clone copies img into a new RGBA image anchored at the origin
func Clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Overlay draws src over dst with src's origin at dst's origin
func Overlay(dst draw.Image, src image.Image) {
	draw.Draw(dst, src.Bounds().Sub(src.Bounds().Min), src, src.Bounds().Min, draw.Over)
}

// DrawAt draws src over dst with its top-left corner at pt
func DrawAt(dst draw.Image, src image.Image, pt image.Point) {
	b := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: pt, Max: pt.Add(b.Size())}, src, b.Min, draw.Over)
}

// ScaleInto scales the whole of src into the rectangle r of dst
func ScaleInto(dst draw.Image, r image.Rectangle, src image.Image) {
	draw.ApproxBiLinear.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
}

// Rotate90 returns src rotated 90 degrees counter-clockwise
func Rotate90(src image.Image) *image.RGBA {
	b := src.Bounds()
	w := float64(b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))

	// (x, y) -> (y, w - x) with the source translated to the origin first
	s2d := f64.Aff3{
		0, 1, -float64(b.Min.Y),
		-1, 0, w + float64(b.Min.X),
	}
	draw.NearestNeighbor.Transform(dst, s2d, src, b, draw.Src, nil)
	return dst
}

// Fill paints r with a solid colour
func Fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// StrokeRect draws the outline of r with the given line width, inside r
func StrokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	if r.Empty() || width <= 0 {
		return
	}
	Fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	Fill(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	Fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	Fill(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}
