package report

import "math"

// canvas is a grid of braille cells, each 2 dots wide and 4 dots tall.
type canvas [][]uint8

func newCanvas(width, height int) canvas {
	c := make(canvas, height)
	for y := range c {
		c[y] = make([]uint8, width)
	}
	return c
}

func (c canvas) dotRows() int {
	return len(c) * 4
}

func (c canvas) line(values []float64, r Range, style lineStyle) {
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, c.rowFor(v, r)
		if prevX < 0 {
			if style.plots(px) {
				c.set(px, py)
			}
		} else {
			bresenham(prevX, prevY, px, py, func(dx, dy int) {
				if style.plots(dx) {
					c.set(dx, dy)
				}
			})
		}
		prevX, prevY = px, py
	}
}

func (c canvas) rowFor(v float64, r Range) int {
	rows := c.dotRows()
	if rows <= 1 {
		return 0
	}
	pos := (v - r.Min) / (r.Max - r.Min)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func (c canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c) || cx >= len(c[cy]) {
		return
	}
	c[cy][cx] |= dotMask(x%2, y%4)
}

func (ls lineStyle) plots(x int) bool {
	if ls.period <= 1 {
		return true
	}
	return x%ls.period < ls.on
}

// compose merges the layers at one cell; the first layer with a dot owns
// the cell's color.
func compose(layers []canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, layer := range layers {
		if y >= len(layer) || x >= len(layer[y]) {
			continue
		}
		cell := layer[y][x]
		if cell == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= cell
	}
	return mask, owner
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
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
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Dot bit layout of the Unicode braille block.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func dotMask(x, y int) uint8 {
	return dotBits[x][y]
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
