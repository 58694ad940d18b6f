//go:build ebiten

package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"alloy-heat/internal/core"
)

// Overlay draws the composition map on top of the temperature view. Press C
// to toggle it.
type Overlay struct {
	sim   core.Sim
	scale int
	show  bool
	img   *ebiten.Image
	buf   []byte
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale}
}

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		o.show = !o.show
	}
}

// Draw paints the overlay when enabled and the sim exposes its grid.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show {
		return
	}
	gp, ok := o.sim.(gridProvider)
	if !ok {
		return
	}
	g := gp.Grid()
	w, h := g.Width(), g.Height()
	if o.img == nil || o.img.Bounds().Dx() != w || o.img.Bounds().Dy() != h {
		o.img = ebiten.NewImage(w, h)
		o.buf = make([]byte, w*h*4)
	}
	compositionMask(o.buf, g)
	o.img.WritePixels(o.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.img, op)
}
