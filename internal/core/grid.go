package core

// Field stores a 2D grid of float64 cell values in row-major order.
type Field struct {
	W, H int
	data []float64
}

// NewField allocates a field with the given dimensions.
func NewField(w, h int) *Field {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Field{W: w, H: h, data: make([]float64, w*h)}
}

// Values exposes the backing slice so callers can read/write values directly.
func (f *Field) Values() []float64 { return f.data }

// Index returns the linear slice index for row r and column c.
func (f *Field) Index(r, c int) int { return r*f.W + c }

// InBounds reports whether (r, c) addresses a cell of the field.
func (f *Field) InBounds(r, c int) bool {
	return r >= 0 && r < f.H && c >= 0 && c < f.W
}

// Size returns the field dimensions.
func (f *Field) Size() Size { return Size{W: f.W, H: f.H} }

// Fill sets every cell to v.
func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

// Clone returns an independent copy of the field.
func (f *Field) Clone() *Field {
	return &Field{W: f.W, H: f.H, data: append([]float64(nil), f.data...)}
}

// CopyFrom overwrites the field with src. Dimensions must match.
func (f *Field) CopyFrom(src *Field) {
	if src.W != f.W || src.H != f.H {
		panic("core: CopyFrom dimension mismatch")
	}
	copy(f.data, src.data)
}
