package figure

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// blankPanel draws a framed, empty panel with its title. go-chart refuses to
// render a chart without series, so panels with no points come from here.
func blankPanel(width, height int, title string, scale func(float64) float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	margin := int(scale(40))
	frame := image.Rect(margin, margin*2, width-margin, height-margin)
	strokeRect(img, frame, max(1, int(scale(1))), color.Black)

	zoom := scale(2)
	drawText(img, title, width/2, margin/2, zoom, color.Black)
	drawText(img, "no data", width/2, (frame.Min.Y+frame.Max.Y)/2, zoom, color.Gray{Y: 128})
	return img
}

// strokeRect outlines r with lines of the given thickness.
func strokeRect(dst draw.Image, r image.Rectangle, thickness int, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

// drawText renders text with the 7x13 bitmap face, magnified by zoom and
// horizontally centered on cx with its top edge at top.
func drawText(dst draw.Image, text string, cx, top int, zoom float64, c color.Color) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	d := &font.Drawer{Face: face, Src: image.NewUniform(c)}
	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()

	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = glyphs
	d.Dot = fixed.Point26_6{X: 0, Y: face.Metrics().Ascent}
	d.DrawString(text)

	zw := int(float64(w) * zoom)
	zh := int(float64(h) * zoom)
	target := image.Rect(cx-zw/2, top, cx-zw/2+zw, top+zh)
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}
