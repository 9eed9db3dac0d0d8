package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Dial sweep, clockwise from the lower left.
const (
	dialStart = 135.0
	dialSweep = 270.0
)

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
	}
	c.Clear()
	return c
}

// Set lights a dot at (x, y) in sub-pixel coordinates. The canvas spans
// (Width*2) x (Height*4) dots; anything outside is dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// DrawDial draws a round gauge face with 11 ticks, the arc filled up to frac
// and a needle pointing at frac.
func (c *Canvas) DrawDial(frac float64) {
	cx, cy := c.Width, c.Height*2
	r := math.Min(float64(cx), float64(cy)) - 1

	point := func(f, radius float64) (int, int) {
		a := (dialStart + f*dialSweep) * math.Pi / 180
		return cx + int(math.Round(radius*math.Cos(a))), cy + int(math.Round(radius*math.Sin(a)))
	}

	for i := 0; i <= 10; i++ {
		f := float64(i) / 10
		x0, y0 := point(f, r*0.8)
		x1, y1 := point(f, r)
		c.DrawLine(x0, y0, x1, y1)
	}

	steps := int(frac * 60)
	for i := 0; i < steps; i++ {
		f := float64(i) / 60
		x0, y0 := point(f, r*0.9)
		x1, y1 := point(f+1.0/60, r*0.9)
		c.DrawLine(x0, y0, x1, y1)
	}

	nx, ny := point(frac, r*0.7)
	c.DrawLine(cx, cy, nx, ny)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
