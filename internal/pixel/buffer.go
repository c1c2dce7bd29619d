package pixel

import "math"

// Buffer is a flat, row-major array of CRGB triples sized W by H. All
// writes clip silently to bounds; reads outside bounds return Black.
type Buffer struct {
	W, H int
	px   []CRGB
}

// NewBuffer allocates a buffer of the given dimensions, initialized to black.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{W: w, H: h, px: make([]CRGB, w*h)}
}

func (b *Buffer) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return 0, false
	}
	return y*b.W + x, true
}

// SetPixel writes c at (x,y). Out-of-bounds writes are silently ignored.
func (b *Buffer) SetPixel(x, y int, c CRGB) {
	if i, ok := b.index(x, y); ok {
		b.px[i] = c
	}
}

// GetPixel reads the color at (x,y), or Black if out of bounds.
func (b *Buffer) GetPixel(x, y int) CRGB {
	if i, ok := b.index(x, y); ok {
		return b.px[i]
	}
	return Black
}

// Pixels returns the underlying row-major slice. Callers must not retain it
// across a concurrent write.
func (b *Buffer) Pixels() []CRGB {
	return b.px
}

// Clear sets every pixel to c.
func (b *Buffer) Clear(c CRGB) {
	for i := range b.px {
		b.px[i] = c
	}
}

// FillRectangle sets every pixel in [x,x+w) x [y,y+h) to c.
func (b *Buffer) FillRectangle(x, y, w, h int, c CRGB) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			b.SetPixel(xx, yy, c)
		}
	}
}

// DrawRectangle draws the unfilled border of [x,x+w) x [y,y+h).
func (b *Buffer) DrawRectangle(x, y, w, h int, c CRGB) {
	b.DrawLine(x, y, x+w-1, y, c)
	b.DrawLine(x, y+h-1, x+w-1, y+h-1, c)
	b.DrawLine(x, y, x, y+h-1, c)
	b.DrawLine(x+w-1, y, x+w-1, y+h-1, c)
}

// DrawLine draws an integer Bresenham line from (x0,y0) to (x1,y1).
func (b *Buffer) DrawLine(x0, y0, x1, y1 int, c CRGB) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	if dx == 0 && dy == 0 {
		b.SetPixel(x0, y0, c)
		return
	}

	for {
		b.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws the 8-way symmetric midpoint circle of the given radius
// centered at (cx,cy). Points that fall inside the buffer are drawn even
// when the center is off-canvas.
func (b *Buffer) DrawCircle(cx, cy, radius int, c CRGB) {
	b.circlePoints(cx, cy, radius, func(x, y int) {
		b.SetPixel(x, y, c)
	})
}

// FillCircle draws a solid disk of the given radius centered at (cx,cy).
func (b *Buffer) FillCircle(cx, cy, radius int, c CRGB) {
	x := radius
	y := 0
	err := 0
	for x >= y {
		b.DrawLine(cx-x, cy+y, cx+x, cy+y, c)
		b.DrawLine(cx-x, cy-y, cx+x, cy-y, c)
		b.DrawLine(cx-y, cy+x, cx+y, cy+x, c)
		b.DrawLine(cx-y, cy-x, cx+y, cy-x, c)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func (b *Buffer) circlePoints(cx, cy, radius int, plot func(x, y int)) {
	x := radius
	y := 0
	err := 0
	for x >= y {
		plot(cx+x, cy+y)
		plot(cx+y, cy+x)
		plot(cx-y, cy+x)
		plot(cx-x, cy+y)
		plot(cx-x, cy-y)
		plot(cx-y, cy-x)
		plot(cx+y, cy-x)
		plot(cx+x, cy-y)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// FadeFrameBy multiplies every pixel's channels by (255-amount)/255 using
// 8-bit saturating arithmetic.
func (b *Buffer) FadeFrameBy(amount uint8) {
	for i := range b.px {
		b.px[i] = b.px[i].FadeToBlackBy(amount)
	}
}

// SetPixelsF draws a real-valued run of length onto a 1-D projection
// starting at pos (both in pixel units). The first and last pixels get
// anti-alias fades proportional to fractional coverage at the endpoints;
// interior pixels get the full color. When merge is true, colors are added
// with saturation instead of overwriting. project maps a 1-D index to an
// (x,y) buffer coordinate.
func (b *Buffer) SetPixelsF(pos, length float64, c CRGB, merge bool, project func(i int) (int, int)) {
	if length <= 0 {
		return
	}
	start := pos
	end := pos + length

	first := int(math.Floor(start))
	last := int(math.Ceil(end)) - 1

	for i := first; i <= last; i++ {
		covStart := math.Max(float64(i), start)
		covEnd := math.Min(float64(i+1), end)
		coverage := covEnd - covStart
		if coverage <= 0 {
			continue
		}

		x, y := project(i)
		var out CRGB
		if coverage >= 1 {
			out = c
		} else {
			out = Black.Blend(c, coverage)
		}

		if merge {
			out = b.GetPixel(x, y).Add(out)
		}
		b.SetPixel(x, y, out)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
