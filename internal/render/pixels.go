package render

import (
	"image"
	"image/color"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Image paints band-encoded cells into an RGBA image, one block of
// scale x scale pixels per cell.
func Image(cells []uint8, w, h, scale int, palette []color.RGBA) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	row := make([]byte, w*4)
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for r := 0; r < h; r++ {
		fillPaletteRGBA(row, cells[r*w:(r+1)*w], palette)
		for c := 0; c < w; c++ {
			px := row[c*4 : c*4+4]
			for dy := 0; dy < scale; dy++ {
				off := img.PixOffset(c*scale, r*scale+dy)
				for dx := 0; dx < scale; dx++ {
					copy(img.Pix[off+dx*4:off+dx*4+4], px)
				}
			}
		}
	}
	return img
}
