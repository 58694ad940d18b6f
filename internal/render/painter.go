//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads band-encoded cells into an ebiten image and draws it
// scaled onto the screen.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
	op   ebiten.DrawImageOptions
}

// NewGridPainter allocates a painter for a w x h grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		w:   w,
		h:   h,
		img: ebiten.NewImage(w, h),
		buf: make([]byte, w*h*4),
	}
}

// Blit draws cells onto dst with each cell scale pixels wide.
func (p *GridPainter) Blit(dst *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	fillPaletteRGBA(p.buf, cells, palette)
	p.img.WritePixels(p.buf)

	p.op.GeoM.Reset()
	p.op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, &p.op)
}
