package viz

import (
	"strings"
)

// Braille cell dot bits, indexed [row][col]. Cells start at U+2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid where every cell holds 2x4 Braille dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the dot at (x, y) in dot coordinates, which span
// (Width*2) x (Height*4). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// DrawLine draws a Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PhasePortrait draws the curve (xs[i], ys[i]) scaled to fill a w by h
// character canvas.
func PhasePortrait(xs, ys []float64, w, h int) string {
	c := NewCanvas(w, h)
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 0 {
		return c.String()
	}

	xMin, xMax := bounds(xs[:n])
	yMin, yMax := bounds(ys[:n])
	px := func(v float64) int { return int((v - xMin) / (xMax - xMin) * float64(w*2-1)) }
	py := func(v float64) int { return int((yMax - v) / (yMax - yMin) * float64(h*4-1)) }

	x0, y0 := px(xs[0]), py(ys[0])
	c.Set(x0, y0)
	for i := 1; i < n; i++ {
		x1, y1 := px(xs[i]), py(ys[i])
		c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
	return c.String()
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}
